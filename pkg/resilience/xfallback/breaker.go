package xfallback

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerProvider 带熔断保护的提供方装饰器
type breakerProvider[Req, Resp any] struct {
	inner Provider[Req, Resp]
	cb    *gobreaker.CircuitBreaker[Resp]
}

// WithBreaker 包装提供方，为其加上熔断保护
//
// 熔断器 Open 时 Available 返回 false，降级链据此直接越过该提供方
// （记录一次 container_down），不把尝试预算浪费在已知故障的端点上。
// 底层使用 [sony/gobreaker/v2]。
//
// consecutiveFailures 为触发熔断的连续失败次数；
// openTimeout 为 Open 状态恢复到 HalfOpen 的等待时间。
func WithBreaker[Req, Resp any](p Provider[Req, Resp], consecutiveFailures uint32, openTimeout time.Duration) Provider[Req, Resp] {
	if consecutiveFailures == 0 {
		consecutiveFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[Resp](gobreaker.Settings{
		Name:    p.Name(),
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
	})

	return &breakerProvider[Req, Resp]{inner: p, cb: cb}
}

// Name 透传内层提供方的身份
func (b *breakerProvider[Req, Resp]) Name() string {
	return b.inner.Name()
}

// Available 熔断器 Open 时视为不可用
func (b *breakerProvider[Req, Resp]) Available(ctx context.Context) bool {
	if b.cb.State() == gobreaker.StateOpen {
		return false
	}
	return b.inner.Available(ctx)
}

// Attempt 在熔断器保护下执行内层调用
func (b *breakerProvider[Req, Resp]) Attempt(ctx context.Context, req Req) (Resp, error) {
	return b.cb.Execute(func() (Resp, error) {
		return b.inner.Attempt(ctx, req)
	})
}
