package xresmon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// timeNow 可替换的时钟，测试中替换以获得确定性时间。
var timeNow = time.Now

// ResourceMetrics 一次探测得到的资源快照
type ResourceMetrics struct {
	// KernelCPUPercent 内核态 CPU 占用（0-100）
	KernelCPUPercent float64
	// MemoryPressurePercent 内存压力（0-100）
	MemoryPressurePercent float64
	// ProcessCount 系统进程总数
	ProcessCount int
	// At 采样时间
	At time.Time
}

// Decision 资源门禁决策
type Decision struct {
	// CanSpawn 是否允许启动新的并发工作单元
	CanSpawn bool
	// Metrics 决策依据的资源快照；失败放行时为保守合成值
	Metrics ResourceMetrics
	// Reason 拒绝或失败放行的人类可读说明，放行且探测正常时为空
	Reason string
}

// Monitor 主机资源水位门禁
//
// 无跨调用状态，每次 CheckResources 相互独立；并发调用安全。
// 不做缓存，需要防抖轮询的调用方自行在外层实现。
type Monitor struct {
	thresholds Thresholds
	probe      Probe
	logger     *slog.Logger
	metrics    *Metrics
}

// New 创建资源监控器
//
// 阈值在构造时校验，非法配置直接失败。
// 未指定探针时按编译平台自动选择。
func New(opts ...Option) (*Monitor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := o.thresholds.Validate(); err != nil {
		return nil, err
	}

	if o.meterProvider != nil {
		metrics, err := NewMetrics(o.meterProvider)
		if err != nil {
			return nil, err
		}
		o.metrics = metrics
	}

	probe := o.probe
	if probe == nil {
		probe = NewPlatformProbe()
	}

	return &Monitor{
		thresholds: o.thresholds,
		probe:      probe,
		logger:     o.logger,
		metrics:    o.metrics,
	}, nil
}

// CheckResources 采集当前资源水位并与阈值比较
//
// 任一指标达到或超过阈值即拒绝，Reason 按 CPU、内存、进程数的顺序
// 枚举所有超限项。探测失败时放行（失败即放行），Reason 说明监控不可用。
func (m *Monitor) CheckResources(ctx context.Context) Decision {
	metrics, err := m.collect(ctx)
	if err != nil {
		// 失败即放行：监控自身的故障不得阻断全部新工作
		d := Decision{
			CanSpawn: true,
			Metrics:  ResourceMetrics{At: timeNow()},
			Reason:   fmt.Sprintf("resource monitoring unavailable on %s, allowing by default: %v", m.probe.Platform(), err),
		}
		if m.logger != nil {
			m.logger.WarnContext(ctx, "资源探测失败，放行",
				"platform", m.probe.Platform(),
				"error", err,
			)
		}
		m.metrics.RecordCheck(ctx, true, true)
		return d
	}

	var exceeded []string
	if metrics.KernelCPUPercent >= m.thresholds.CPUPercent {
		exceeded = append(exceeded, fmt.Sprintf("CPU (%.1f%% ≥ %.1f%%)",
			metrics.KernelCPUPercent, m.thresholds.CPUPercent))
	}
	if metrics.MemoryPressurePercent >= m.thresholds.MemoryPercent {
		exceeded = append(exceeded, fmt.Sprintf("memory (%.1f%% ≥ %.1f%%)",
			metrics.MemoryPressurePercent, m.thresholds.MemoryPercent))
	}
	if metrics.ProcessCount >= m.thresholds.ProcessCount {
		exceeded = append(exceeded, fmt.Sprintf("processes (%d ≥ %d)",
			metrics.ProcessCount, m.thresholds.ProcessCount))
	}

	d := Decision{
		CanSpawn: len(exceeded) == 0,
		Metrics:  metrics,
	}
	if !d.CanSpawn {
		d.Reason = strings.Join(exceeded, ", ")
		if m.logger != nil {
			m.logger.InfoContext(ctx, "资源不足，拒绝新工作单元", "reason", d.Reason)
		}
	}
	m.metrics.RecordCheck(ctx, d.CanSpawn, false)
	return d
}

// collect 依次探测三项指标，任一失败即整体失败。
func (m *Monitor) collect(ctx context.Context) (ResourceMetrics, error) {
	cpu, err := m.probe.KernelCPUPercent(ctx)
	if err != nil {
		return ResourceMetrics{}, fmt.Errorf("kernel cpu: %w", err)
	}
	memory, err := m.probe.MemoryPressurePercent(ctx)
	if err != nil {
		return ResourceMetrics{}, fmt.Errorf("memory pressure: %w", err)
	}
	procs, err := m.probe.ProcessCount(ctx)
	if err != nil {
		return ResourceMetrics{}, fmt.Errorf("process count: %w", err)
	}

	return ResourceMetrics{
		KernelCPUPercent:      cpu,
		MemoryPressurePercent: memory,
		ProcessCount:          procs,
		At:                    timeNow(),
	}, nil
}

// GetThresholds 返回当前阈值配置的只读快照
func (m *Monitor) GetThresholds() Thresholds {
	return m.thresholds
}

// Platform 返回所用探针的平台名
func (m *Monitor) Platform() string {
	return m.probe.Platform()
}
