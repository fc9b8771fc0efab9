package xguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/usorama/radkit/pkg/observability/xresmon"
	"github.com/usorama/radkit/pkg/resilience/xadmit"
)

// Format 配置格式
type Format string

// 支持的配置格式
const (
	// FormatYAML YAML 格式
	FormatYAML Format = "yaml"
	// FormatJSON JSON 格式
	FormatJSON Format = "json"
)

// Config 控制器的启动配置
//
// 配置在构造后不可变，不提供运行时重载。
type Config struct {
	// RateLimits 限流配置树（default 兜底 + 操作前缀覆盖）
	RateLimits xadmit.Config `koanf:"rate_limits" json:"rate_limits" yaml:"rate_limits"`

	// Resources 资源门禁阈值；零值时使用默认阈值
	Resources xresmon.Thresholds `koanf:"resources" json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Validate 验证整份配置
// 任一部分无效即失败，不做默认值替换；Resources 零值例外，视为使用默认阈值
func (c Config) Validate() error {
	if err := c.RateLimits.Validate(); err != nil {
		return err
	}
	if c.Resources != (xresmon.Thresholds{}) {
		if err := c.Resources.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// effectiveThresholds 返回生效阈值，零值回落到默认阈值
func (c Config) effectiveThresholds() xresmon.Thresholds {
	if c.Resources == (xresmon.Thresholds{}) {
		return xresmon.DefaultThresholds()
	}
	return c.Resources
}

// LoadConfig 从文件加载配置
// 根据扩展名自动检测格式（.yaml/.yml 或 .json），加载后立即校验
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return ParseConfig(data, format)
}

// ParseConfig 从字节数据解析配置
// 需要显式指定格式，适用于内嵌配置或 ConfigMap 场景；解析后立即校验
func ParseConfig(data []byte, format Format) (Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// detectFormat 根据文件扩展名检测配置格式
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}
