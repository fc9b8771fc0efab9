package xfallback

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Chain 单一能力的有序提供方链
//
// 顺序即优先级：首个提供方是首选，最后一个是最终降级。
// 链在构造后不可变。
type Chain[Req, Resp any] struct {
	capability string
	providers  []Provider[Req, Resp]
	history    *History
	logger     *slog.Logger
	metrics    *Metrics
}

// newChain 创建能力链
func newChain[Req, Resp any](capability string, providers []Provider[Req, Resp], history *History, o *options) *Chain[Req, Resp] {
	return &Chain[Req, Resp]{
		capability: capability,
		providers:  providers,
		history:    history,
		logger:     o.logger,
		metrics:    o.metrics,
	}
}

// Execute 按配置顺序逐个尝试提供方，首个成功即返回
//
// 每个提供方在单次调用内只尝试一次：
//   - Available() 为 false 时记录一次 container_down 失败并跳到下一个，
//     不执行真实调用
//   - 真实调用失败时按 ClassifyTrigger 分类、记录，然后继续
//   - 成功时记录（耗时从整个 Execute 开始计起）并立即返回
//
// 最后一个提供方也失败时返回 *ChainError；链为空时返回 ErrNoProviders。
func (c *Chain[Req, Resp]) Execute(ctx context.Context, req Req) (Resp, error) {
	var zero Resp

	if len(c.providers) == 0 {
		return zero, ErrNoProviders
	}

	callID := uuid.New()
	start := timeNow()

	var lastErr error
	var lastProvider string

	for i, p := range c.providers {
		lastProvider = p.Name()

		if !p.Available(ctx) {
			lastErr = &ProviderError{Provider: p.Name(), Kind: FailureUnavailable}
			c.record(ctx, Attempt{
				CallID:   callID,
				Provider: p.Name(),
				Success:  false,
				Duration: timeNow().Sub(start),
				Err:      "Provider not available",
				Trigger:  TriggerContainerDown,
				At:       timeNow(),
			})
			c.logFallback(ctx, p.Name(), i, "provider not available")
			continue
		}

		resp, err := p.Attempt(ctx, req)
		if err == nil {
			c.record(ctx, Attempt{
				CallID:   callID,
				Provider: p.Name(),
				Success:  true,
				Duration: timeNow().Sub(start),
				At:       timeNow(),
			})
			return resp, nil
		}

		lastErr = err
		c.record(ctx, Attempt{
			CallID:   callID,
			Provider: p.Name(),
			Success:  false,
			Duration: timeNow().Sub(start),
			Err:      err.Error(),
			Trigger:  ClassifyTrigger(err),
			At:       timeNow(),
		})
		c.logFallback(ctx, p.Name(), i, err.Error())
	}

	c.metrics.RecordExhausted(ctx, c.capability)
	return zero, &ChainError{
		Capability: c.capability,
		Provider:   lastProvider,
		Attempts:   len(c.providers),
		Err:        lastErr,
	}
}

// record 写入历史并上报指标
func (c *Chain[Req, Resp]) record(ctx context.Context, a Attempt) {
	c.history.append(a)
	c.metrics.RecordAttempt(ctx, c.capability, a.Provider, a.Success, a.Trigger, a.Duration)
}

// logFallback 记录降级推进日志
func (c *Chain[Req, Resp]) logFallback(ctx context.Context, provider string, index int, reason string) {
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, "provider failed, advancing to next",
		slog.String("capability", c.capability),
		slog.String("provider", provider),
		slog.Int("chain_index", index),
		slog.String("reason", reason),
	)
}
