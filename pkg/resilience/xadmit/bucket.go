package xadmit

import (
	"sync"
	"time"
)

// timeNow 时间源包级变量，支持测试中 mock 替换。
// 设计决策: 使用包级变量 mock 模式（与 xresmon 的系统调用变量一致），
// 对此规模的包足够简洁。注意：mock 测试不可使用 t.Parallel()。
// time.Now 携带单调时钟读数，elapsed 计算不受墙钟回拨影响。
var timeNow = time.Now

// tokenBucket 单个键的令牌桶状态
//
// 补充是惰性的：每次访问时按流逝时间折算新增令牌，
// 不存在后台补充协程。
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64 // 每秒补充令牌数
	lastRefill time.Time
}

// refillLocked 执行惰性补充，调用方必须持有 mu
func (tb *tokenBucket) refillLocked(now time.Time) {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	tb.lastRefill = now
	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}

// snapshot 读取补充后的当前令牌数，不写回任何状态
// 读路径保持零副作用，零成本检查天然幂等
func (tb *tokenBucket) snapshot() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tokens := tb.tokens
	if elapsed := timeNow().Sub(tb.lastRefill).Seconds(); elapsed > 0 {
		tokens += elapsed * tb.rate
	}
	if tokens > tb.capacity {
		tokens = tb.capacity
	}
	return tokens
}

// consume 补充后扣减 cost 个令牌，下限钳制为 0
// 读改写序列在桶锁内原子完成，防止并发调用丢失更新
func (tb *tokenBucket) consume(cost float64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked(timeNow())
	tb.tokens -= cost
	if tb.tokens < 0 {
		tb.tokens = 0
	}
}

// tryConsume 补充后检查并扣减：令牌足够时扣减并返回扣减后的余量，
// 不足时不改动令牌，返回补充后的余量。整个序列在桶锁内原子完成。
func (tb *tokenBucket) tryConsume(cost float64) (float64, bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked(timeNow())
	if tb.tokens >= cost {
		tb.tokens -= cost
		return tb.tokens, true
	}
	return tb.tokens, false
}

// bucketStore 桶状态存储
//
// 配置解析与桶状态是两层独立查找：store 只负责后者。
// 未物化的键在读路径上不产生任何状态。
type bucketStore struct {
	buckets sync.Map // map[string]*tokenBucket
}

// lookup 查找已物化的桶，不存在时返回 (nil, false)
func (s *bucketStore) lookup(key string) (*tokenBucket, bool) {
	val, ok := s.buckets.Load(key)
	if !ok {
		return nil, false
	}
	tb, ok := val.(*tokenBucket)
	return tb, ok
}

// materialize 获取或创建桶，新桶以满令牌状态创建
func (s *bucketStore) materialize(key string, cfg BucketConfig) *tokenBucket {
	if tb, ok := s.lookup(key); ok {
		return tb
	}

	tb := &tokenBucket{
		tokens:     cfg.BucketSize,
		capacity:   cfg.BucketSize,
		rate:       cfg.TokensPerSecond,
		lastRefill: timeNow(),
	}

	actual, _ := s.buckets.LoadOrStore(key, tb)
	if existing, ok := actual.(*tokenBucket); ok {
		return existing
	}
	return tb
}

// count 返回已物化的桶数量
func (s *bucketStore) count() int {
	n := 0
	s.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// clear 丢弃全部桶状态
func (s *bucketStore) clear() {
	s.buckets.Range(func(key, _ any) bool {
		s.buckets.Delete(key)
		return true
	})
}
