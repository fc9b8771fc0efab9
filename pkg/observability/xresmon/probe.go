package xresmon

import "context"

// Probe 平台资源探针。
//
// 每个方法对应一种主机级信号；实现负责全部平台相关的解析，
// 监控器只消费数值。实现必须可被多个 goroutine 并发调用。
type Probe interface {
	// KernelCPUPercent 返回内核态 CPU 占用百分比（0-100）。
	KernelCPUPercent(ctx context.Context) (float64, error)

	// MemoryPressurePercent 返回内存压力百分比（0-100）。
	// 可用内存的定义为 free + inactive + speculative + purgeable
	// 等价类别之和，只数 free 页会低估可用量造成误报。
	MemoryPressurePercent(ctx context.Context) (float64, error)

	// ProcessCount 返回当前系统进程总数。
	ProcessCount(ctx context.Context) (int, error)

	// Platform 返回探针对应的平台名，仅用于日志与诊断。
	Platform() string
}
