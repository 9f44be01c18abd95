package xdaily

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/omeyang/logkit/pkg/util/xfile"
)

// FilenameCalc 文件名计算策略
//
// 纯函数：无 I/O、无共享状态，可并发调用无需同步。
// t 已转换到 Sink 配置的时区。
type FilenameCalc interface {
	// CalcFilename 根据基础文件名和给定时刻计算具体文件名
	CalcFilename(baseName string, t time.Time) string
}

// DailyNamer 固定宽度日期后缀策略
//
// 将基础文件名按最后一个扩展名拆分，在 stem 和 ext 之间插入
// "_YYYY-MM-DD"（零填充，下划线后固定 10 个字符）：
//
//	app.log + 2024-03-07 -> app_2024-03-07.log
//
// 保留清扫的匹配器依赖这一固定宽度（见 retention.go 的
// isDailyLogName），二者必须同步修改。
type DailyNamer struct{}

// CalcFilename 实现 FilenameCalc 接口
func (DailyNamer) CalcFilename(baseName string, t time.Time) string {
	stem, ext := xfile.SplitExt(baseName)
	return stem + "_" + dailyDate(t) + ext
}

// dailyDate 返回固定宽度的日期串 YYYY-MM-DD。
// 零填充保证字典序与日期序一致，保留清扫的截止比较依赖这一点。
func dailyDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// PatternNamer 用户自定义时间布局策略
//
// 将基础文件名的文件名部分视为 Go 时间布局（参考时刻
// 2006-01-02 15:04:05），对给定时刻格式化：
//
//	"app-2006-01-02-15.log" + 2024-03-07T22:10 -> "app-2024-03-07-22.log"
//
// 目录部分原样保留，不参与格式化——路径中的数字（版本号、临时
// 目录编号）否则会被当作布局占位符替换。
//
// 结果长度和内容不固定，保留清扫无法按形状识别历史文件：
// 启动清扫仍按固定日期后缀形状匹配，Pattern 策略下可靠的只有
// 轮转后对截止时刻具体文件名的单点删除（见 retention.go）。
type PatternNamer struct{}

// CalcFilename 实现 FilenameCalc 接口
func (PatternNamer) CalcFilename(baseName string, t time.Time) string {
	dir, base := filepath.Split(baseName)
	return dir + t.Format(base)
}
