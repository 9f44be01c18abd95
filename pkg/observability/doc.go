// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xdaily: 按天定时轮转的日志文件输出器
//   - xmetrics: 输出器的 OpenTelemetry 指标观测
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 核心包不依赖具体指标后端，通过观测接口解耦
package observability
