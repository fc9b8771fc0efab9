// Package xfallback 提供多提供方降级调用链，保证上游模型服务不可靠时
// 调用仍有机会成功，且失败信息永不静默丢失。
//
// # 设计理念
//
//   - 严格按配置顺序逐个尝试提供方，首个成功即返回（first success wins）
//   - 单次 Execute 内每个提供方只尝试一次；提供方内部的重试属于适配器层
//     （见 WithRetry 装饰器），本层只做有序降级 + 失败分类 + 记录
//   - 失败被分类为四种触发原因之一：timeout、container_down、
//     model_not_found、retry_exceeded
//   - 每次尝试都写入有界环形历史（默认容量 100，FIFO 淘汰）
//
// # 核心概念
//
//   - Provider[Req, Resp]：提供方适配器接口（Attempt/Available/Name）
//   - Chain[Req, Resp]：单一能力的有序提供方链
//   - Manager：嵌入（embedding）与摘要（summarization）两条链的组合，
//     共享同一份尝试历史，形成跨能力的统一健康信号
//   - Attempt：一次尝试的追加式记录
//   - Trigger：失败触发原因
//
// # 失败分类
//
// 优先使用结构化错误（*ProviderError 的 Kind 字段），其次识别类型化的
// 网络/超时错误，最后才退化到对错误文本的子串启发式匹配。
// 启发式的优先级固定为：timeout → container_down → model_not_found →
// retry_exceeded，首个命中生效。
//
// # 快速开始
//
//	mgr, err := xfallback.NewManager(
//	    []xfallback.EmbedProvider{primary, local},
//	    []xfallback.SummarizeProvider{summarizer},
//	)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := mgr.Embed(ctx, xfallback.EmbedRequest{Texts: texts})
//	if err != nil {
//	    // 整条链耗尽，err 携带最后一个提供方的错误
//	}
//
// # 并发安全
//
// Execute 可被多个调用方并发调用；历史环形缓冲由互斥锁保护。
// 单次 Execute 内的提供方尝试严格串行，绝不并行探测。
package xfallback
