package xfallback

import (
	"context"
)

// 能力名称常量
const (
	// CapabilityEmbedding 嵌入能力
	CapabilityEmbedding = "embedding"
	// CapabilitySummarization 摘要能力
	CapabilitySummarization = "summarization"
)

// healthProbe 健康探测条目，抹平两条链的类型参数差异
type healthProbe struct {
	name      string
	available func(ctx context.Context) bool
}

// Manager 降级管理器
//
// 持有嵌入与摘要两条能力链，共享同一份尝试历史。
// 同名提供方跨能力合并统计，形成单一健康信号。
// 通过显式构造注入依赖，不提供进程级单例。
type Manager struct {
	history   *History
	embed     *Chain[EmbedRequest, EmbedResponse]
	summarize *Chain[SummarizeRequest, SummarizeResponse]
	probes    []healthProbe
}

// NewManager 创建降级管理器
//
// embed 与 summarize 为各能力按优先级排序的提供方链，
// 构造后不可变。允许空链：对应能力的调用会立即返回 ErrNoProviders。
func NewManager(embed []EmbedProvider, summarize []SummarizeProvider, opts ...Option) (*Manager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.meterProvider != nil {
		metrics, err := NewMetrics(o.meterProvider)
		if err != nil {
			return nil, err
		}
		o.metrics = metrics
	}

	history := newHistory(o.historyCapacity)

	m := &Manager{
		history:   history,
		embed:     newChain(CapabilityEmbedding, embed, history, o),
		summarize: newChain(CapabilitySummarization, summarize, history, o),
	}

	// 同名提供方只探测一次（跨能力共享身份）
	seen := make(map[string]bool)
	for _, p := range embed {
		if !seen[p.Name()] {
			seen[p.Name()] = true
			m.probes = append(m.probes, healthProbe{name: p.Name(), available: p.Available})
		}
	}
	for _, p := range summarize {
		if !seen[p.Name()] {
			seen[p.Name()] = true
			m.probes = append(m.probes, healthProbe{name: p.Name(), available: p.Available})
		}
	}

	return m, nil
}

// Embed 通过嵌入链执行一次向量化调用
func (m *Manager) Embed(ctx context.Context, req EmbedRequest) (EmbedResponse, error) {
	return m.embed.Execute(ctx, req)
}

// Summarize 通过摘要链执行一次摘要调用
func (m *Manager) Summarize(ctx context.Context, req SummarizeRequest) (SummarizeResponse, error) {
	return m.summarize.Execute(ctx, req)
}

// AttemptHistory 按时间顺序返回尝试历史的防御性拷贝
// providers 非空时只返回指定提供方的记录
func (m *Manager) AttemptHistory(providers ...string) []Attempt {
	return m.history.list(providers...)
}

// HealthStatus 主动探测所有已配置提供方的可用性
// LatencyMs 仅在探活成功时有意义
func (m *Manager) HealthStatus(ctx context.Context) map[string]ProviderHealth {
	out := make(map[string]ProviderHealth, len(m.probes))
	for _, probe := range m.probes {
		start := timeNow()
		available := probe.available(ctx)
		health := ProviderHealth{Available: available}
		if available {
			health.LatencyMs = float64(timeNow().Sub(start).Microseconds()) / 1000
		}
		out[probe.name] = health
	}
	return out
}

// Stats 返回基于当前历史的聚合统计
func (m *Manager) Stats() Stats {
	return m.history.stats()
}

// ClearHistory 清空尝试历史，不影响提供方链
func (m *Manager) ClearHistory() {
	m.history.clear()
}
