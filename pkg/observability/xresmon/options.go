package xresmon

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// 默认阈值
const (
	// DefaultCPUThreshold 默认内核 CPU 阈值（百分比）
	DefaultCPUThreshold = 50.0
	// DefaultMemoryThreshold 默认内存压力阈值（百分比）
	DefaultMemoryThreshold = 80.0
	// DefaultProcessCountThreshold 默认进程数阈值
	DefaultProcessCountThreshold = 400
)

// Thresholds 资源门禁阈值
// 任一指标达到或超过阈值即拒绝新工作单元
type Thresholds struct {
	// CPUPercent 内核 CPU 阈值（0-100）
	CPUPercent float64 `koanf:"cpu_percent" json:"cpu_percent" yaml:"cpu_percent"`
	// MemoryPercent 内存压力阈值（0-100）
	MemoryPercent float64 `koanf:"memory_percent" json:"memory_percent" yaml:"memory_percent"`
	// ProcessCount 进程数阈值
	ProcessCount int `koanf:"process_count" json:"process_count" yaml:"process_count"`
}

// Validate 验证阈值合法性
func (t Thresholds) Validate() error {
	if t.CPUPercent <= 0 || t.CPUPercent > 100 {
		return fmt.Errorf("%w: cpu_percent must be in (0, 100], got %v", ErrInvalidThresholds, t.CPUPercent)
	}
	if t.MemoryPercent <= 0 || t.MemoryPercent > 100 {
		return fmt.Errorf("%w: memory_percent must be in (0, 100], got %v", ErrInvalidThresholds, t.MemoryPercent)
	}
	if t.ProcessCount <= 0 {
		return fmt.Errorf("%w: process_count must be positive, got %d", ErrInvalidThresholds, t.ProcessCount)
	}
	return nil
}

// DefaultThresholds 返回默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUPercent:    DefaultCPUThreshold,
		MemoryPercent: DefaultMemoryThreshold,
		ProcessCount:  DefaultProcessCountThreshold,
	}
}

// options 内部配置结构
type options struct {
	thresholds    Thresholds
	probe         Probe
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	metrics       *Metrics
}

// Option 配置选项函数
type Option func(*options)

// defaultOptions 返回默认配置
func defaultOptions() *options {
	return &options{
		thresholds: DefaultThresholds(),
	}
}

// WithThresholds 覆盖默认阈值
func WithThresholds(t Thresholds) Option {
	return func(o *options) {
		o.thresholds = t
	}
}

// WithProbe 指定资源探针
// 未设置时使用 NewPlatformProbe 按平台选择
func WithProbe(p Probe) Option {
	return func(o *options) {
		o.probe = p
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
// 用于收集 Counter 类型的指标
// 如果不设置，不会收集指标
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
