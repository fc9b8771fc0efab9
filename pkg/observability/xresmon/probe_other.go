//go:build !linux && !darwin

package xresmon

import (
	"context"
	"runtime"
)

// unsupportedProbe 无实现平台的兜底探针。
// 所有探测方法返回 ErrUnsupportedPlatform，监控器据此走失败放行路径。
type unsupportedProbe struct{}

var _ Probe = unsupportedProbe{}

// NewPlatformProbe 返回当前平台的资源探针。
func NewPlatformProbe() Probe {
	return unsupportedProbe{}
}

// Platform 返回探针对应的平台名。
func (unsupportedProbe) Platform() string { return runtime.GOOS }

func (unsupportedProbe) KernelCPUPercent(context.Context) (float64, error) {
	return 0, ErrUnsupportedPlatform
}

func (unsupportedProbe) MemoryPressurePercent(context.Context) (float64, error) {
	return 0, ErrUnsupportedPlatform
}

func (unsupportedProbe) ProcessCount(context.Context) (int, error) {
	return 0, ErrUnsupportedPlatform
}
