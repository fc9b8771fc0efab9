package xadmit

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标名称常量
const (
	// metricNameChecksTotal 准入检查总数计数器
	metricNameChecksTotal = "xadmit.checks.total"
	// metricNameDeniedTotal 被拒绝请求计数器
	metricNameDeniedTotal = "xadmit.denied.total"
	// metricNameCheckDuration 准入检查耗时直方图
	metricNameCheckDuration = "xadmit.check.duration"
)

// Metrics 准入指标收集器
type Metrics struct {
	meter         metric.Meter
	checksTotal   metric.Int64Counter
	deniedTotal   metric.Int64Counter
	checkDuration metric.Float64Histogram
}

// NewMetrics 创建指标收集器
// 如果 meterProvider 为 nil，返回 nil（不收集指标）
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xadmit",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	checksTotal, err := meter.Int64Counter(
		metricNameChecksTotal,
		metric.WithDescription("准入检查总数"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	deniedTotal, err := meter.Int64Counter(
		metricNameDeniedTotal,
		metric.WithDescription("被拒绝的准入请求数"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkDuration, err := meter.Float64Histogram(
		metricNameCheckDuration,
		metric.WithDescription("准入检查耗时"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.000001, 0.00001, 0.0001, 0.001, 0.01,
		),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		meter:         meter,
		checksTotal:   checksTotal,
		deniedTotal:   deniedTotal,
		checkDuration: checkDuration,
	}, nil
}

// RecordCheck 记录一次准入检查
// operation: 命中的操作前缀（default 配置记为 "default"）
func (m *Metrics) RecordCheck(ctx context.Context, operation string, allowed bool, duration time.Duration) {
	if m == nil {
		return
	}

	// 使用 context.WithoutCancel 确保即使 ctx 被取消，指标仍能记录
	metricsCtx := context.WithoutCancel(ctx)

	if operation == "" {
		operation = "default"
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("allowed", allowed),
	}

	m.checksTotal.Add(metricsCtx, 1, metric.WithAttributes(attrs...))
	if !allowed {
		m.deniedTotal.Add(metricsCtx, 1, metric.WithAttributes(attrs...))
	}
	m.checkDuration.Record(metricsCtx, duration.Seconds(), metric.WithAttributes(attrs...))
}
