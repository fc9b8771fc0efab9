// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xresmon: 主机资源水位门禁（内核 CPU、内存压力、进程数）
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 平台相关逻辑收敛在探针实现内，上层组件保持平台无关
//   - 监控自身的故障不得阻断业务（失败即放行）
package observability
