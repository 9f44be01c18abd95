package xconf

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/omeyang/logkit/pkg/observability/xdaily"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// SinkConfig 每日轮转输出器的声明式配置。
//
// 字段与 xdaily 的构造选项一一对应，零值即 xdaily 的默认行为。
type SinkConfig struct {
	// Filename 基础日志文件路径，必填。
	Filename string `koanf:"filename"`

	// RotationHour 每日轮转时刻的小时（0~23），默认 0。
	RotationHour int `koanf:"rotation_hour"`

	// RotationMinute 每日轮转时刻的分钟（0~59），默认 0。
	RotationMinute int `koanf:"rotation_minute"`

	// Truncate 轮转打开新文件时是否清空，默认 false（追加）。
	Truncate bool `koanf:"truncate"`

	// MaxFiles 保留的轮转文件天数，0 表示不清理。
	MaxFiles int `koanf:"max_files"`

	// Pattern 为 true 时将文件名部分视为 Go 时间布局。
	Pattern bool `koanf:"pattern"`

	// Location IANA 时区名称（如 "Asia/Shanghai"、"UTC"），
	// 空串表示 time.Local。
	Location string `koanf:"location"`

	// FileMode 日志文件权限的八进制串（如 "0644"），
	// 空串表示 xdaily 默认值。
	FileMode string `koanf:"file_mode"`
}

// Options 将声明式配置转换为 xdaily 的构造选项。
//
// 时区名称和权限串在这里解析；范围校验（轮转时刻越界、MaxFiles
// 越界）留给 xdaily.NewSink，避免两处维护同一套规则。
func (c *SinkConfig) Options() ([]xdaily.Option, error) {
	opts := []xdaily.Option{
		xdaily.WithRotationAt(c.RotationHour, c.RotationMinute),
		xdaily.WithTruncate(c.Truncate),
		xdaily.WithMaxFiles(c.MaxFiles),
	}

	if c.Pattern {
		opts = append(opts, xdaily.WithPattern())
	}

	if c.Location != "" {
		loc, err := time.LoadLocation(c.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLocation, c.Location, err)
		}
		opts = append(opts, xdaily.WithLocation(loc))
	}

	if c.FileMode != "" {
		mode, err := strconv.ParseUint(c.FileMode, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFileMode, c.FileMode)
		}
		opts = append(opts, xdaily.WithFileMode(os.FileMode(mode)))
	}

	return opts, nil
}

// NewSink 按配置构造每日轮转输出器。
//
// 额外的 opts 追加在配置转换结果之后，可覆盖配置或注入代码才能
// 表达的选项（时钟、事件回调、观测器）。
func (c *SinkConfig) NewSink(opts ...xdaily.Option) (*xdaily.Sink, error) {
	base, err := c.Options()
	if err != nil {
		return nil, err
	}
	return xdaily.NewSink(c.Filename, append(base, opts...)...)
}
