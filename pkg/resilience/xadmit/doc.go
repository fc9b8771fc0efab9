// Package xadmit 提供按键（per-key）令牌桶准入控制，保护编排进程免受并发过载。
//
// # 设计理念
//
// xadmit 基于令牌桶算法实现进程内限流：
//   - 惰性补充：令牌在访问时按流逝时间计算，不依赖后台定时器
//   - 层级配置：default 配置兜底，operation 前缀配置按最长前缀覆盖
//   - 读写分离：CheckLimit 是纯读操作，消耗只发生在 ConsumeTokens
//
// # 核心概念
//
//   - Limiter：限流器，持有配置树和桶状态
//   - BucketConfig：单桶配置（速率、容量、单次成本上限）
//   - Decision：准入判定结果，含剩余令牌和建议重试时间
//   - BucketState：已物化桶的状态快照
//
// # 未见键的读取契约
//
// 对从未消耗过的键，CheckLimit 视其为满桶，但不创建任何状态；
// 桶只在首次 ConsumeTokens 时物化。因此 GetBucketState 返回 nil
// 与 CheckLimit 报告满桶并不矛盾——配置解析与桶状态是两层独立查找。
//
// # 快速开始
//
//	limiter, err := xadmit.New(
//	    xadmit.WithDefault(xadmit.BucketConfig{TokensPerSecond: 10, BucketSize: 20}),
//	    xadmit.WithOperation("agent:spawn", xadmit.BucketConfig{TokensPerSecond: 1, BucketSize: 3}),
//	)
//	if err != nil {
//	    return err
//	}
//
//	d := limiter.CheckLimit("agent:spawn:agent-1", 1)
//	if d.Allowed {
//	    limiter.ConsumeTokens("agent:spawn:agent-1", 1)
//	}
//
// # 并发安全
//
// 所有方法并发安全。每个桶持有独立互斥锁，读改写序列按键原子执行，
// 保证任意可观测时刻 0 ≤ tokens ≤ capacity。
package xadmit
