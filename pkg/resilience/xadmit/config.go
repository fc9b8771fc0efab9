package xadmit

import "fmt"

// BucketConfig 单个令牌桶的配置
//
// 不可变，构造 Limiter 时整棵配置树被 Validate 校验，
// 之后不再允许修改。
type BucketConfig struct {
	// TokensPerSecond 每秒补充的令牌数，必须为正
	TokensPerSecond float64 `json:"tokens_per_second" yaml:"tokens_per_second" koanf:"tokens_per_second"`

	// BucketSize 桶容量，即初始/最大令牌数，必须为正
	BucketSize float64 `json:"bucket_size" yaml:"bucket_size" koanf:"bucket_size"`

	// MaxCost 单次请求成本上限（可选）
	// 为 0 时取 BucketSize；不允许超过 BucketSize
	MaxCost float64 `json:"max_cost,omitempty" yaml:"max_cost,omitempty" koanf:"max_cost"`
}

// Validate 验证桶配置是否有效
func (c BucketConfig) Validate() error {
	if c.TokensPerSecond <= 0 {
		return fmt.Errorf("%w: tokens_per_second must be positive, got %v", ErrInvalidConfig, c.TokensPerSecond)
	}
	if c.BucketSize <= 0 {
		return fmt.Errorf("%w: bucket_size must be positive, got %v", ErrInvalidConfig, c.BucketSize)
	}
	if c.MaxCost < 0 {
		return fmt.Errorf("%w: max_cost cannot be negative, got %v", ErrInvalidConfig, c.MaxCost)
	}
	if c.MaxCost > c.BucketSize {
		return fmt.Errorf("%w: max_cost %v exceeds bucket_size %v", ErrInvalidConfig, c.MaxCost, c.BucketSize)
	}
	return nil
}

// EffectiveMaxCost 返回有效的单次成本上限
// MaxCost 未设置时等于 BucketSize
func (c BucketConfig) EffectiveMaxCost() float64 {
	if c.MaxCost <= 0 {
		return c.BucketSize
	}
	return c.MaxCost
}

// Config 限流器配置树
//
// Default 为必填的兜底配置；Operations 以字符串前缀为键，
// 对所有以该前缀开头的桶键覆盖 Default。更长（更具体）的前缀优先。
type Config struct {
	// Default 兜底配置，必填
	Default BucketConfig `json:"default" yaml:"default" koanf:"default"`

	// Operations 按操作前缀覆盖的配置
	// 例如前缀 "agent:spawn" 匹配键 "agent:spawn:agent-1"
	Operations map[string]BucketConfig `json:"operations,omitempty" yaml:"operations,omitempty" koanf:"operations"`
}

// Validate 验证整棵配置树
// 任一配置无效即失败，不做默认值替换
func (c Config) Validate() error {
	if c.Default == (BucketConfig{}) {
		return ErrMissingDefault
	}
	if err := c.Default.Validate(); err != nil {
		return fmt.Errorf("default: %w", err)
	}
	for prefix, bc := range c.Operations {
		if prefix == "" {
			return fmt.Errorf("%w: operation prefix cannot be empty", ErrInvalidConfig)
		}
		if err := bc.Validate(); err != nil {
			return fmt.Errorf("operations[%q]: %w", prefix, err)
		}
	}
	return nil
}

// Clone 创建配置的深拷贝
func (c Config) Clone() Config {
	clone := Config{Default: c.Default}
	if c.Operations != nil {
		clone.Operations = make(map[string]BucketConfig, len(c.Operations))
		for prefix, bc := range c.Operations {
			clone.Operations[prefix] = bc
		}
	}
	return clone
}
