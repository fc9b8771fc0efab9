package xguard

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/usorama/radkit/pkg/observability/xresmon"
	"github.com/usorama/radkit/pkg/resilience/xfallback"
)

// options 内部配置结构
type options struct {
	embed         []xfallback.EmbedProvider
	summarize     []xfallback.SummarizeProvider
	probe         xresmon.Probe
	logger        *slog.Logger
	meterProvider metric.MeterProvider
}

// Option 配置选项函数
type Option func(*options)

// defaultOptions 返回默认配置
func defaultOptions() *options {
	return &options{}
}

// WithEmbedProviders 设置嵌入能力的提供方链，按优先级排序
func WithEmbedProviders(providers ...xfallback.EmbedProvider) Option {
	return func(o *options) {
		o.embed = providers
	}
}

// WithSummarizeProviders 设置摘要能力的提供方链，按优先级排序
func WithSummarizeProviders(providers ...xfallback.SummarizeProvider) Option {
	return func(o *options) {
		o.summarize = providers
	}
}

// WithProbe 指定资源探针
// 未设置时按编译平台自动选择
func WithProbe(p xresmon.Probe) Option {
	return func(o *options) {
		o.probe = p
	}
}

// WithLogger 设置日志记录器，透传给全部组件
// 未设置时不输出日志
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeterProvider 设置 OpenTelemetry MeterProvider，透传给全部组件
// 如果不设置，不会收集指标
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
