// Package xguard 是准入与弹性控制器的组合根。
//
// # 功能概览
//
//   - [Controller.Admit]: 先查主机资源水位，再原子地检查并扣减令牌桶配额
//   - [Controller.Embed] / [Controller.Summarize]: 经降级链路由到提供方
//   - [LoadConfig] / [ParseConfig]: 从 YAML/JSON 加载限流与阈值配置
//
// # 组合方式
//
// Controller 通过显式构造注入 [xresmon.Monitor]、[xadmit.Limiter] 与
// [xfallback.Manager] 三个组件，不提供进程级单例。调用链为：
//
//	caller → Monitor.CheckResources → Limiter.TryAcquire → Manager.{Embed|Summarize}
//
// 资源不足与配额不足都是携带原因与重试提示的普通决策，不是错误；
// 唯一需要调用方硬处理的失败是降级链整体耗尽。
package xguard
