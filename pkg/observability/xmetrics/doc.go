// Package xmetrics 提供日志输出器的 OpenTelemetry 指标观测。
//
// [NewSinkObserver] 创建满足 xdaily.Observer 的观测器，把写入字节数、
// 轮转次数和保留清扫删除数上报为 OTel 指标：
//
//	obs, err := xmetrics.NewSinkObserver()
//	if err != nil { ... }
//	sink, err := xdaily.NewSink("app.log", xdaily.WithObserver(obs))
//
// 默认使用全局 MeterProvider（otel.GetMeterProvider），可通过
// WithMeterProvider 注入自定义实例（测试中配合 sdk/metric 的
// ManualReader 断言指标值）。
//
// 指标名称：
//
//	logkit.daily.write.total             写入记录条数
//	logkit.daily.write.bytes             写入字节数
//	logkit.daily.rotation.total          轮转次数（自动与手动）
//	logkit.daily.retention.deleted.total 保留清扫删除的文件数
package xmetrics
