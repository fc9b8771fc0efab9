package xadmit

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// options 内部配置结构
type options struct {
	config        Config
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	metrics       *Metrics
	onDeny        func(key string, d Decision)
}

// validate 验证选项
func (o *options) validate() error {
	return o.config.Validate()
}

// Option 配置选项函数
type Option func(*options)

// defaultOptions 返回默认配置
func defaultOptions() *options {
	return &options{}
}

// WithConfig 使用完整配置树覆盖
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg.Clone()
	}
}

// WithDefault 设置兜底配置
// Default 是必填项，未设置时 New 返回 ErrMissingDefault
func WithDefault(cfg BucketConfig) Option {
	return func(o *options) {
		o.config.Default = cfg
	}
}

// WithOperation 设置操作前缀的覆盖配置
// 以 prefix 开头的桶键使用此配置；更长的前缀优先
func WithOperation(prefix string, cfg BucketConfig) Option {
	return func(o *options) {
		if o.config.Operations == nil {
			o.config.Operations = make(map[string]BucketConfig)
		}
		o.config.Operations[prefix] = cfg
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

// WithOnDeny 设置请求被拒绝时的回调
// 用于自定义日志记录、指标上报等
func WithOnDeny(fn func(key string, d Decision)) Option {
	return func(o *options) {
		o.onDeny = fn
	}
}
