package xfallback

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// retryProvider 带适配器级重试的提供方装饰器
type retryProvider[Req, Resp any] struct {
	inner    Provider[Req, Resp]
	attempts uint
	delay    time.Duration
}

// WithRetry 包装提供方，使其在单次 Attempt 内做有限次重试
//
// 降级链本身绝不重试同一提供方（Execute 内每个提供方只尝试一次）；
// 带退避的重试属于适配器层，此装饰器即该层的实现。
// 底层使用 [avast/retry-go/v5]，固定延迟，只返回最后一个错误。
//
// attempts 为总尝试次数（包含首次），delay 为两次尝试间的固定间隔。
func WithRetry[Req, Resp any](p Provider[Req, Resp], attempts uint, delay time.Duration) Provider[Req, Resp] {
	if attempts == 0 {
		attempts = 1
	}
	return &retryProvider[Req, Resp]{inner: p, attempts: attempts, delay: delay}
}

// Name 透传内层提供方的身份
func (r *retryProvider[Req, Resp]) Name() string {
	return r.inner.Name()
}

// Available 透传内层提供方的探活
func (r *retryProvider[Req, Resp]) Available(ctx context.Context) bool {
	return r.inner.Available(ctx)
}

// Attempt 带重试地执行内层调用
func (r *retryProvider[Req, Resp]) Attempt(ctx context.Context, req Req) (Resp, error) {
	return retry.NewWithData[Resp](
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() (Resp, error) {
		return r.inner.Attempt(ctx, req)
	})
}
