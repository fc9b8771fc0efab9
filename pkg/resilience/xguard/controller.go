package xguard

import (
	"context"
	"log/slog"
	"time"

	"github.com/usorama/radkit/pkg/observability/xresmon"
	"github.com/usorama/radkit/pkg/resilience/xadmit"
	"github.com/usorama/radkit/pkg/resilience/xfallback"
)

// AdmitDecision 一次准入评估的结果
//
// 拒绝不是错误：Reason 给出机器可读的原因，RetryAfter 在配额不足时
// 给出重试提示。调用方据此排队、拒绝或稍后重试。
type AdmitDecision struct {
	// Allowed 是否允许启动该工作单元
	Allowed bool
	// Reason 拒绝原因，允许时为空
	Reason string
	// RetryAfter 配额不足时的重试提示，其余情况为 0
	RetryAfter time.Duration
	// Resources 资源门禁的完整决策
	Resources xresmon.Decision
	// RateLimit 限流决策；资源门禁先拒绝时为 nil（未走到限流）
	RateLimit *xadmit.Decision
}

// Controller 准入与弹性控制器
//
// 组合资源监控、限流与降级三个组件：启动工作单元前先过资源门禁
// 再过配额门禁，提供方调用经降级链路由。所有依赖显式注入。
type Controller struct {
	monitor *xresmon.Monitor
	limiter *xadmit.Limiter
	manager *xfallback.Manager
	logger  *slog.Logger
}

// New 创建控制器
//
// cfg 在此处被急切校验，限流配置树或阈值无效则构造失败。
// 提供方链、探针与可观测性依赖通过选项注入。
func New(cfg Config, opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	monitorOpts := []xresmon.Option{
		xresmon.WithThresholds(cfg.effectiveThresholds()),
	}
	if o.probe != nil {
		monitorOpts = append(monitorOpts, xresmon.WithProbe(o.probe))
	}
	if o.logger != nil {
		monitorOpts = append(monitorOpts, xresmon.WithLogger(o.logger))
	}
	if o.meterProvider != nil {
		monitorOpts = append(monitorOpts, xresmon.WithMeterProvider(o.meterProvider))
	}
	monitor, err := xresmon.New(monitorOpts...)
	if err != nil {
		return nil, err
	}

	limiterOpts := []xadmit.Option{
		xadmit.WithConfig(cfg.RateLimits),
	}
	if o.logger != nil {
		limiterOpts = append(limiterOpts, xadmit.WithLogger(o.logger))
	}
	if o.meterProvider != nil {
		limiterOpts = append(limiterOpts, xadmit.WithMeterProvider(o.meterProvider))
	}
	limiter, err := xadmit.New(limiterOpts...)
	if err != nil {
		return nil, err
	}

	var managerOpts []xfallback.Option
	if o.logger != nil {
		managerOpts = append(managerOpts, xfallback.WithLogger(o.logger))
	}
	if o.meterProvider != nil {
		managerOpts = append(managerOpts, xfallback.WithMeterProvider(o.meterProvider))
	}
	manager, err := xfallback.NewManager(o.embed, o.summarize, managerOpts...)
	if err != nil {
		return nil, err
	}

	return &Controller{
		monitor: monitor,
		limiter: limiter,
		manager: manager,
		logger:  o.logger,
	}, nil
}

// Admit 评估是否允许启动一个键为 key、成本为 cost 的工作单元
//
// 先查资源门禁，资源不足直接拒绝；通过后原子地检查并扣减配额，
// 两道门禁都通过才算放行。资源门禁拒绝时不触碰令牌桶。
func (c *Controller) Admit(ctx context.Context, key string, cost float64) AdmitDecision {
	resources := c.monitor.CheckResources(ctx)
	if !resources.CanSpawn {
		return AdmitDecision{
			Reason:    resources.Reason,
			Resources: resources,
		}
	}

	limit := c.limiter.TryAcquire(key, cost)
	d := AdmitDecision{
		Allowed:   limit.Allowed,
		Resources: resources,
		RateLimit: &limit,
	}
	if !limit.Allowed {
		d.Reason = "rate limit exceeded for " + key
		d.RetryAfter = limit.RetryAfter
	}
	return d
}

// Embed 经降级链执行一次向量化调用
func (c *Controller) Embed(ctx context.Context, req xfallback.EmbedRequest) (xfallback.EmbedResponse, error) {
	return c.manager.Embed(ctx, req)
}

// Summarize 经降级链执行一次摘要调用
func (c *Controller) Summarize(ctx context.Context, req xfallback.SummarizeRequest) (xfallback.SummarizeResponse, error) {
	return c.manager.Summarize(ctx, req)
}

// Monitor 返回资源监控组件
func (c *Controller) Monitor() *xresmon.Monitor { return c.monitor }

// Limiter 返回限流组件
func (c *Controller) Limiter() *xadmit.Limiter { return c.limiter }

// Fallback 返回降级管理组件
func (c *Controller) Fallback() *xfallback.Manager { return c.manager }
