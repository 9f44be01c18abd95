// Package xconf 提供日志输出器的配置加载。
//
// 基于 koanf 实现，从 YAML/JSON 文件或字节数据加载 [SinkConfig]，
// 并转换为 pkg/observability/xdaily 的构造选项：
//
//	cfg, err := xconf.Load("logkit.yaml")
//	if err != nil { ... }
//	sink, err := cfg.NewSink()
//
// 配置可以嵌在更大的应用配置文件中，用 WithKey 指定子树：
//
//	cfg, err := xconf.Load("app.yaml", xconf.WithKey("logging.daily"))
//
// 格式根据文件扩展名自动检测（.yaml/.yml/.json）；从字节数据加载
// （K8s ConfigMap 等场景）需显式指定格式。
package xconf
