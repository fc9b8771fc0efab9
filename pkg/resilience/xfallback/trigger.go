package xfallback

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Trigger 失败触发原因
type Trigger string

const (
	// TriggerTimeout 调用超时
	TriggerTimeout Trigger = "timeout"

	// TriggerContainerDown 提供方不可达（连接拒绝、DNS 失败、探活失败）
	TriggerContainerDown Trigger = "container_down"

	// TriggerModelNotFound 请求的模型不存在
	TriggerModelNotFound Trigger = "model_not_found"

	// TriggerRetryExceeded 其他失败的兜底分类
	TriggerRetryExceeded Trigger = "retry_exceeded"
)

// FailureKind 结构化失败类别
//
// 可控的适配器应返回携带 FailureKind 的 *ProviderError，
// 使分类不依赖脆弱的错误文本匹配。
type FailureKind int

const (
	// FailureUnknown 未知失败，按 retry_exceeded 兜底
	FailureUnknown FailureKind = iota
	// FailureTimeout 超时
	FailureTimeout
	// FailureUnavailable 服务不可达
	FailureUnavailable
	// FailureModelNotFound 模型不存在
	FailureModelNotFound
)

// ProviderError 结构化的提供方错误
//
// 实现了 error 接口和 errors.As 支持。
// Kind 在分类时优先于一切启发式匹配。
type ProviderError struct {
	// Provider 出错的提供方
	Provider string
	// Kind 结构化失败类别
	Kind FailureKind
	// Err 底层错误
	Err error
}

// Error 实现 error 接口
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return "xfallback: provider " + e.Provider + ": " + e.Err.Error()
	}
	return "xfallback: provider " + e.Provider + " failed"
}

// Unwrap 返回底层错误
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// timeoutIndicators 超时类错误文本特征
var timeoutIndicators = []string{
	"timeout",
	"timed out",
	"deadline exceeded",
}

// downIndicators 连接/网络类错误文本特征
var downIndicators = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"dial tcp",
	"econnrefused",
}

// ClassifyTrigger 将提供方错误分类为唯一的触发原因
//
// 分类层次：
//  1. 结构化类别：*ProviderError 的 Kind
//  2. 类型化错误：context.DeadlineExceeded、net.Error 超时、
//     ECONNREFUSED/ECONNRESET/EPIPE、DNS 错误（errors.Is/As，参考 xlimit
//     的错误链检查方式，不做字符串匹配）
//  3. 文本启发式（仅对无法改造的适配器的兜底）：
//     timeout → container_down → model_not_found，首个命中生效
//  4. 以上皆未命中：retry_exceeded
func ClassifyTrigger(err error) Trigger {
	if err == nil {
		return TriggerRetryExceeded
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case FailureTimeout:
			return TriggerTimeout
		case FailureUnavailable:
			return TriggerContainerDown
		case FailureModelNotFound:
			return TriggerModelNotFound
		case FailureUnknown:
			// 继续走类型化/启发式分类
		}
	}

	if isTimeoutError(err) {
		return TriggerTimeout
	}
	if isConnectivityError(err) {
		return TriggerContainerDown
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, timeoutIndicators) {
		return TriggerTimeout
	}
	if containsAny(msg, downIndicators) {
		return TriggerContainerDown
	}
	if strings.Contains(msg, "model") &&
		(strings.Contains(msg, "not found") ||
			strings.Contains(msg, "does not exist") ||
			strings.Contains(msg, "unknown")) {
		return TriggerModelNotFound
	}

	return TriggerRetryExceeded
}

// isTimeoutError 检查类型化的超时错误
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectivityError 检查类型化的连接类错误
func isConnectivityError(err error) bool {
	for _, target := range []error{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE} {
		if errors.Is(err, target) {
			return true
		}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// containsAny 检查文本是否包含任一特征串
func containsAny(msg string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(msg, ind) {
			return true
		}
	}
	return false
}
