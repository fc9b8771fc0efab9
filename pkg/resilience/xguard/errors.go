package xguard

import "errors"

var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xguard: config path cannot be empty")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xguard: unsupported config format")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("xguard: failed to parse config")

	// ErrLoadFailed 表示配置文件读取失败。
	ErrLoadFailed = errors.New("xguard: failed to load config")
)
