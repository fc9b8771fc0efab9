package xfallback

import (
	"errors"
	"fmt"
)

// 预定义错误，使用 errors.Is 进行比较
var (
	// ErrNoProviders 表示能力链未配置任何提供方
	ErrNoProviders = errors.New("xfallback: no providers available")

	// ErrChainExhausted 表示整条链的提供方全部失败
	ErrChainExhausted = errors.New("xfallback: all providers failed")
)

// ChainError 链耗尽错误
//
// 仅在最后一个提供方也失败后抛出，携带最后一次尝试的错误文本；
// 更早的失败通过 AttemptHistory 查看，不嵌入此错误。
type ChainError struct {
	// Capability 发生耗尽的能力（embedding / summarization）
	Capability string
	// Provider 最后尝试的提供方
	Provider string
	// Attempts 本次调用的尝试次数（等于链长度）
	Attempts int
	// Err 最后一个提供方的错误
	Err error
}

// Error 实现 error 接口
func (e *ChainError) Error() string {
	return fmt.Sprintf("xfallback: %s chain exhausted after %d attempts, last provider %q: %v",
		e.Capability, e.Attempts, e.Provider, e.Err)
}

// Is 支持 errors.Is 检查
func (e *ChainError) Is(target error) bool {
	return target == ErrChainExhausted
}

// Unwrap 返回最后一个提供方的错误
func (e *ChainError) Unwrap() error {
	return e.Err
}

// IsExhausted 检查错误是否为链耗尽错误
func IsExhausted(err error) bool {
	return errors.Is(err, ErrChainExhausted)
}
