package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/logkit/pkg/observability/xdaily"
)

const (
	defaultInstrumentationName = "github.com/omeyang/logkit/xmetrics"

	metricWriteTotal       = "logkit.daily.write.total"
	metricWriteBytes       = "logkit.daily.write.bytes"
	metricRotationTotal    = "logkit.daily.rotation.total"
	metricRetentionDeleted = "logkit.daily.retention.deleted.total"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 SinkObserver 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// SinkObserver 基于 OpenTelemetry 指标的输出器观测实现。
//
// 回调由 Sink 在锁内同步调用，这里只做计数器累加，无阻塞 I/O。
type SinkObserver struct {
	writeTotal       metric.Int64Counter
	writeBytes       metric.Int64Counter
	rotationTotal    metric.Int64Counter
	retentionDeleted metric.Int64Counter
}

var _ xdaily.Observer = (*SinkObserver)(nil)

// NewSinkObserver 创建基于 OpenTelemetry 的输出器观测器。
func NewSinkObserver(opts ...Option) (*SinkObserver, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	writeTotal, err := meter.Int64Counter(
		metricWriteTotal,
		metric.WithDescription("total log records written"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricWriteTotal, err)
	}

	writeBytes, err := meter.Int64Counter(
		metricWriteBytes,
		metric.WithDescription("total bytes written"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricWriteBytes, err)
	}

	rotationTotal, err := meter.Int64Counter(
		metricRotationTotal,
		metric.WithDescription("total file rotations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricRotationTotal, err)
	}

	retentionDeleted, err := meter.Int64Counter(
		metricRetentionDeleted,
		metric.WithDescription("total files deleted by retention"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricRetentionDeleted, err)
	}

	return &SinkObserver{
		writeTotal:       writeTotal,
		writeBytes:       writeBytes,
		rotationTotal:    rotationTotal,
		retentionDeleted: retentionDeleted,
	}, nil
}

// ObserveWrite 实现 xdaily.Observer 接口。
func (o *SinkObserver) ObserveWrite(bytes int) {
	ctx := context.Background()
	o.writeTotal.Add(ctx, 1)
	o.writeBytes.Add(ctx, int64(bytes))
}

// ObserveRotation 实现 xdaily.Observer 接口。
func (o *SinkObserver) ObserveRotation() {
	o.rotationTotal.Add(context.Background(), 1)
}

// ObserveRetentionDelete 实现 xdaily.Observer 接口。
func (o *SinkObserver) ObserveRetentionDelete(files int) {
	o.retentionDeleted.Add(context.Background(), int64(files))
}
