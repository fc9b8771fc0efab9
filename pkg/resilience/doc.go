// Package resilience 提供弹性与准入控制相关的子包。
//
// 子包列表：
//   - xadmit: 按键令牌桶限流（最长前缀配置解析、惰性补充）
//   - xfallback: 多提供方降级链（失败分类、尝试历史、聚合统计）
//   - xguard: 组合根，资源门禁 + 配额门禁 + 降级路由与配置加载
//
// 设计原则：
//   - 拒绝是决策不是错误，携带原因与重试提示
//   - 依赖显式注入，不提供进程级单例
//   - 可观测性（slog 日志、OTel 指标）默认关闭，按需注入
package resilience
