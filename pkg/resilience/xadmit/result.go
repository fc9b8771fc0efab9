package xadmit

import "time"

// Decision 准入判定结果
//
// 拒绝不是错误：Allowed=false 是一次成功调用返回的否定判定，
// 调用方据此决定排队、拒绝还是稍后重试。
type Decision struct {
	// Allowed 是否允许请求通过
	Allowed bool

	// TokensRemaining 补充后的当前可用令牌数
	// CheckLimit 返回扣减前的余量；TryAcquire 成功时返回扣减后的余量
	TokensRemaining float64

	// RetryAfter 建议重试等待时间
	// 仅在因令牌不足被拒绝时为正；成本超过 MaxCost 的拒绝无重试意义，保持为 0
	RetryAfter time.Duration

	// Operation 命中的操作前缀，空字符串表示使用 default 配置
	Operation string
}

// BucketState 已物化桶的状态快照
type BucketState struct {
	// Tokens 当前可用令牌数
	Tokens float64

	// Capacity 桶容量
	Capacity float64
}
