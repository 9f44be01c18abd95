// Package xdaily 提供按天定时轮转的日志文件输出。
//
// [Sink] 在每天固定的本地时刻（rotation hour:minute）切换到新命名的
// 日志文件，可选地按天数清理过期的轮转文件。核心组成：
//
//   - [FilenameCalc]: 文件名计算策略（[DailyNamer] 固定日期后缀，
//     [PatternNamer] 用户自定义时间布局）
//   - 轮转触发器：持有下一次轮转时刻，按记录自身的时间戳判定是否轮转
//   - 保留清扫：启动时清理过期文件（尽力而为），轮转后删除刚过期的
//     单个文件（失败会从触发写入的调用返回错误）
//
// Sink 隐式实现 [Rotator]（io.WriteCloser 超集），可直接作为 slog 等
// 日志库的输出目标。Write 使用注入的时钟取当前时间；回放带时间戳的
// 记录流时应使用 WriteAt，轮转判定对重放是确定性的。
//
// # 并发
//
// 所有可变状态由单一锁边界保护（写入、轮转、文件名查询全程持锁）。
// 调用方已保证串行访问时，可用 [WithoutLocking] 换成空锁消除热路径
// 开销。
//
// # 夏令时
//
// 下一次轮转时刻按"前一次计划时刻 + 24 小时"推进，不校正本地民用时间
// 跳变。跨夏令时边界时实际间隔可能是 23 或 25 小时，这是接受的近似。
package xdaily
