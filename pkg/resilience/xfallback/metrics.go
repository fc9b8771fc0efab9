package xfallback

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标名称常量
const (
	// metricNameAttemptsTotal 提供方尝试总数计数器
	metricNameAttemptsTotal = "xfallback.attempts.total"
	// metricNameExhaustedTotal 链耗尽计数器
	metricNameExhaustedTotal = "xfallback.exhausted.total"
	// metricNameAttemptDuration 尝试耗时直方图（自 Execute 开始计起）
	metricNameAttemptDuration = "xfallback.attempt.duration"
)

// Metrics 降级链指标收集器
type Metrics struct {
	meter           metric.Meter
	attemptsTotal   metric.Int64Counter
	exhaustedTotal  metric.Int64Counter
	attemptDuration metric.Float64Histogram
}

// NewMetrics 创建指标收集器
// 如果 meterProvider 为 nil，返回 nil（不收集指标）
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xfallback",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	attemptsTotal, err := meter.Int64Counter(
		metricNameAttemptsTotal,
		metric.WithDescription("提供方尝试总数"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	exhaustedTotal, err := meter.Int64Counter(
		metricNameExhaustedTotal,
		metric.WithDescription("链耗尽次数"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	attemptDuration, err := meter.Float64Histogram(
		metricNameAttemptDuration,
		metric.WithDescription("尝试耗时"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0,
		),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		meter:           meter,
		attemptsTotal:   attemptsTotal,
		exhaustedTotal:  exhaustedTotal,
		attemptDuration: attemptDuration,
	}, nil
}

// RecordAttempt 记录一次提供方尝试
func (m *Metrics) RecordAttempt(ctx context.Context, capability, provider string, success bool, trigger Trigger, duration time.Duration) {
	if m == nil {
		return
	}

	// 使用 context.WithoutCancel 确保即使 ctx 被取消，指标仍能记录
	metricsCtx := context.WithoutCancel(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("capability", capability),
		attribute.String("provider", provider),
		attribute.Bool("success", success),
	}
	if !success {
		attrs = append(attrs, attribute.String("trigger", string(trigger)))
	}

	m.attemptsTotal.Add(metricsCtx, 1, metric.WithAttributes(attrs...))
	m.attemptDuration.Record(metricsCtx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordExhausted 记录一次链耗尽
func (m *Metrics) RecordExhausted(ctx context.Context, capability string) {
	if m == nil {
		return
	}

	metricsCtx := context.WithoutCancel(ctx)
	m.exhaustedTotal.Add(metricsCtx, 1, metric.WithAttributes(
		attribute.String("capability", capability),
	))
}
