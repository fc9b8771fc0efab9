package xresmon

import "errors"

var (
	// ErrUnsupportedPlatform 表示当前平台没有可用的资源探针实现。
	ErrUnsupportedPlatform = errors.New("xresmon: unsupported platform")

	// ErrInvalidThresholds 表示阈值配置无效。
	ErrInvalidThresholds = errors.New("xresmon: invalid thresholds")
)
