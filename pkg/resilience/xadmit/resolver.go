package xadmit

import (
	"sort"
	"strings"
)

// configResolver 配置解析器，将桶键解析为生效配置
//
// 按最长前缀匹配 Operations；无匹配时回退到 Default。
// 构造后只读，可被并发访问。
type configResolver struct {
	defaults BucketConfig
	configs  map[string]BucketConfig
	prefixes []string // 按长度降序，保证更具体的前缀先命中
}

// newConfigResolver 创建配置解析器
func newConfigResolver(cfg Config) *configResolver {
	r := &configResolver{
		defaults: cfg.Default,
		configs:  make(map[string]BucketConfig, len(cfg.Operations)),
		prefixes: make([]string, 0, len(cfg.Operations)),
	}

	for prefix, bc := range cfg.Operations {
		r.configs[prefix] = bc
		r.prefixes = append(r.prefixes, prefix)
	}

	// 长度降序排序；同长时按字典序保证确定性
	sort.Slice(r.prefixes, func(i, j int) bool {
		if len(r.prefixes[i]) != len(r.prefixes[j]) {
			return len(r.prefixes[i]) > len(r.prefixes[j])
		}
		return r.prefixes[i] < r.prefixes[j]
	})

	return r
}

// Resolve 解析键的生效配置
// 返回生效配置和命中的操作前缀（未命中时为空字符串，表示 Default）
func (r *configResolver) Resolve(key string) (BucketConfig, string) {
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(key, prefix) {
			return r.configs[prefix], prefix
		}
	}
	return r.defaults, ""
}
