package xfallback

// ProviderStats 单个提供方的聚合统计
type ProviderStats struct {
	// Attempts 尝试总数
	Attempts int
	// Successes 成功次数
	Successes int
}

// Stats 基于当前历史的聚合统计
//
// 聚合不区分能力：嵌入与摘要共享历史，同名提供方的尝试合并计数。
type Stats struct {
	// TotalAttempts 历史中的尝试总数
	TotalAttempts int

	// SuccessRate 成功率，TotalAttempts 为 0 时为 0
	SuccessRate float64

	// FallbackRate 降级率：紧邻的前一条历史记录为失败的尝试
	// （即仅因同一调用内前序提供方失败才发生的尝试）占总数的比例
	FallbackRate float64

	// ByProvider 按提供方聚合
	ByProvider map[string]ProviderStats
}

// ProviderHealth 单个提供方的健康状态
type ProviderHealth struct {
	// Available 探活结果
	Available bool

	// LatencyMs 探活往返耗时（毫秒），仅在 Available 为 true 时有意义
	LatencyMs float64
}
