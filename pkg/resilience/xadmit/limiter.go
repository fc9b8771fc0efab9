package xadmit

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Limiter 按键令牌桶限流器
//
// 职责:
//   - 将桶键解析为生效配置（最长前缀匹配，default 兜底）
//   - 回答准入查询（CheckLimit）并执行消耗（ConsumeTokens）
//   - 处理可观测性（metrics、日志、回调）
//
// CheckLimit 与 ConsumeTokens 分离：检查是纯读，消耗是唯一的写路径。
// 调用方应先 CheckLimit 再 ConsumeTokens；ConsumeTokens 自身不拒绝。
type Limiter struct {
	resolver *configResolver
	store    bucketStore
	opts     *options
}

// New 创建限流器
//
// 整棵配置树（default + 全部 operation 覆盖）在此处被急切校验，
// 任一配置无效则构造失败，不产生半初始化状态。
func New(opts ...Option) (*Limiter, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.meterProvider != nil {
		metrics, err := NewMetrics(cfg.meterProvider)
		if err != nil {
			return nil, err
		}
		cfg.metrics = metrics
	}

	return &Limiter{
		resolver: newConfigResolver(cfg.config),
		opts:     cfg,
	}, nil
}

// CheckLimit 检查键为 key、成本为 cost 的请求是否可以通过
//
// 对 tokens 而言这是纯读操作，消耗只发生在 ConsumeTokens。
// 未物化的键按满桶计算，且本次读取不会创建桶状态。
//
// 判定顺序:
//   - cost 为 0：始终允许，无任何状态变化
//   - cost 超过生效 MaxCost：拒绝（成本本身非法，与剩余令牌无关）
//   - 否则补充后 tokens ≥ cost 即允许
//
// 因令牌不足拒绝时，RetryAfter = ceil((cost-tokens)/rate*1000) 毫秒。
func (l *Limiter) CheckLimit(key string, cost float64) Decision {
	start := time.Now()
	cfg, operation := l.resolver.Resolve(key)

	tokens := cfg.BucketSize
	if tb, ok := l.store.lookup(key); ok {
		tokens = tb.snapshot()
	}

	d := Decision{
		TokensRemaining: tokens,
		Operation:       operation,
	}

	switch {
	case cost == 0:
		d.Allowed = true
	case cost > cfg.EffectiveMaxCost():
		// 成本非法的拒绝没有重试意义，RetryAfter 保持为 0
		d.Allowed = false
	case tokens >= cost:
		d.Allowed = true
	default:
		d.Allowed = false
		retryMs := math.Ceil((cost - tokens) / cfg.TokensPerSecond * 1000)
		d.RetryAfter = time.Duration(retryMs) * time.Millisecond
	}

	l.opts.metrics.RecordCheck(context.Background(), operation, d.Allowed, time.Since(start))

	if !d.Allowed {
		l.onDeny(key, d)
	}

	return d
}

// ConsumeTokens 从键对应的桶中扣减 cost 个令牌
//
// 执行与 CheckLimit 相同的惰性补充后扣减，下限钳制为 0。
// 此方法不校验 MaxCost、不拒绝——门禁应当已经由 CheckLimit 完成。
// 对未见过的键，桶在此处以满令牌状态物化。
func (l *Limiter) ConsumeTokens(key string, cost float64) {
	if cost <= 0 {
		return
	}

	cfg, _ := l.resolver.Resolve(key)
	l.store.materialize(key, cfg).consume(cost)
}

// TryAcquire 原子地执行检查并在允许时消耗
//
// 与先 CheckLimit 后 ConsumeTokens 的组合不同，检查与扣减在桶锁内
// 一次完成，并发调用下同一份令牌不会被双重放行。
// 判定规则与 CheckLimit 一致；成功时 TokensRemaining 为扣减后的余量。
// 零成本与超 MaxCost 的请求不物化桶，其余路径与 ConsumeTokens 相同会物化。
func (l *Limiter) TryAcquire(key string, cost float64) Decision {
	start := time.Now()
	cfg, operation := l.resolver.Resolve(key)

	d := Decision{Operation: operation}

	readTokens := func() float64 {
		if tb, ok := l.store.lookup(key); ok {
			return tb.snapshot()
		}
		return cfg.BucketSize
	}

	switch {
	case cost == 0:
		d.Allowed = true
		d.TokensRemaining = readTokens()
	case cost > cfg.EffectiveMaxCost():
		// 成本非法的拒绝没有重试意义，RetryAfter 保持为 0
		d.Allowed = false
		d.TokensRemaining = readTokens()
	default:
		remaining, ok := l.store.materialize(key, cfg).tryConsume(cost)
		d.Allowed = ok
		d.TokensRemaining = remaining
		if !ok {
			retryMs := math.Ceil((cost - remaining) / cfg.TokensPerSecond * 1000)
			d.RetryAfter = time.Duration(retryMs) * time.Millisecond
		}
	}

	l.opts.metrics.RecordCheck(context.Background(), operation, d.Allowed, time.Since(start))

	if !d.Allowed {
		l.onDeny(key, d)
	}

	return d
}

// GetBucketState 返回键对应桶的状态快照
// 从未消耗过的键没有物化的桶，返回 nil
func (l *Limiter) GetBucketState(key string) *BucketState {
	tb, ok := l.store.lookup(key)
	if !ok {
		return nil
	}
	return &BucketState{
		Tokens:   tb.snapshot(),
		Capacity: tb.capacity,
	}
}

// ActiveBucketCount 返回已物化的桶数量
func (l *Limiter) ActiveBucketCount() int {
	return l.store.count()
}

// ClearBuckets 丢弃全部桶状态，配置树保持不变
func (l *Limiter) ClearBuckets() {
	l.store.clear()
}

// onDeny 调用拒绝回调并记录日志
func (l *Limiter) onDeny(key string, d Decision) {
	if l.opts.onDeny != nil {
		l.opts.onDeny(key, d)
	}

	if l.opts.logger != nil {
		l.opts.logger.Warn("admission denied",
			slog.String("key", key),
			slog.String("operation", d.Operation),
			slog.Float64("tokens_remaining", d.TokensRemaining),
			slog.Duration("retry_after", d.RetryAfter),
		)
	}
}
