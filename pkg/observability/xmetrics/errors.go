package xmetrics

import "errors"

// 指标创建相关错误。
var (
	// ErrCreateInstrument 表示 OTel 指标仪器创建失败。
	ErrCreateInstrument = errors.New("xmetrics: failed to create instrument")
)
