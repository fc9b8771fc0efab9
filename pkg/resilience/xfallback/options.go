package xfallback

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// options 内部配置结构
type options struct {
	historyCapacity int
	logger          *slog.Logger
	meterProvider   metric.MeterProvider
	metrics         *Metrics
}

// Option 配置选项函数
type Option func(*options)

// defaultOptions 返回默认配置
func defaultOptions() *options {
	return &options{
		historyCapacity: defaultHistoryCapacity,
	}
}

// WithHistoryCapacity 设置尝试历史环形缓冲的容量
// 默认 100；非正值回退到默认值
func WithHistoryCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyCapacity = n
		}
	}
}

// WithLogger 设置日志记录器
// 未设置时不输出日志
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeterProvider 设置 OpenTelemetry MeterProvider
// 用于收集 Counter/Histogram 类型的指标
// 如果不设置，不会收集指标
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
