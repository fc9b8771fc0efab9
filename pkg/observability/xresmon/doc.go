// Package xresmon 提供主机资源水位门禁，回答"现在是否适合再启动一个并发工作单元"。
//
// # 功能概览
//
//   - [Monitor.CheckResources]: 采集内核 CPU、内存压力、进程数，与阈值比较后给出准入决策
//   - [Monitor.GetThresholds]: 返回当前阈值配置的只读快照
//   - [NewPlatformProbe]: 按编译平台选择资源探针实现
//
// # 失败即放行
//
// 探测本身失败（探针不可用、解析失败、权限不足）时，监控器一律放行
// （CanSpawn = true）并在 Reason 中说明监控不可用。安全设施自身的故障
// 不得成为系统整体不可用的原因。
//
// # 平台支持
//
// Linux 通过 /proc 采集；macOS 通过 sysctl 与 vm_stat 采集；
// 其余平台的探针恒定返回 [ErrUnsupportedPlatform]，监控器据此放行。
// 所有平台相关的解析都在探针内，监控器本身不含任何 OS 逻辑。
package xresmon
