package xadmit

import "errors"

// 预定义错误，使用 errors.Is 进行比较
var (
	// ErrInvalidConfig 表示限流配置无效
	// 配置校验在构造时完成，校验失败不会产生半初始化的限流器
	ErrInvalidConfig = errors.New("xadmit: invalid config")

	// ErrMissingDefault 表示缺少必需的 default 配置
	ErrMissingDefault = errors.New("xadmit: default config is required")
)
