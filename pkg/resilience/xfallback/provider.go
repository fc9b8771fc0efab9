package xfallback

import "context"

// Provider 提供方适配器接口
//
// 每个上游模型/服务端点实现一个 Provider。
// 单次调用的超时控制由适配器自行负责（本层不在其上叠加超时），
// 适配器报告的超时错误会被分类为 TriggerTimeout。
type Provider[Req, Resp any] interface {
	// Name 返回提供方身份标识，用于历史记录、统计和健康状态
	Name() string

	// Available 探测提供方当前是否可用
	// 返回 false 时，链会记录一次 container_down 失败并跳过真实调用
	Available(ctx context.Context) bool

	// Attempt 执行一次真实调用
	Attempt(ctx context.Context, req Req) (Resp, error)
}

// EmbedRequest 嵌入能力的请求：一批待向量化的文本
type EmbedRequest struct {
	Texts []string
}

// EmbedResponse 嵌入能力的响应
type EmbedResponse struct {
	// Vectors 与请求文本一一对应的向量
	Vectors [][]float32

	// Provider 实际服务本次请求的提供方
	Provider string
}

// EvidenceNode 摘要能力的输入单元
type EvidenceNode struct {
	// ID 节点标识
	ID string

	// Content 节点正文
	Content string
}

// SummarizeRequest 摘要能力的请求：一组证据节点
type SummarizeRequest struct {
	Nodes []EvidenceNode
}

// SummarizeResponse 摘要能力的响应
type SummarizeResponse struct {
	// Summary 摘要文本
	Summary string

	// Provider 实际服务本次请求的提供方
	Provider string
}

// EmbedProvider 嵌入能力的提供方
type EmbedProvider = Provider[EmbedRequest, EmbedResponse]

// SummarizeProvider 摘要能力的提供方
type SummarizeProvider = Provider[SummarizeRequest, SummarizeResponse]
