package xresmon

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标名称常量
const (
	// metricNameChecksTotal 资源检查总数计数器
	metricNameChecksTotal = "xresmon.checks.total"
	// metricNameDeniedTotal 资源不足拒绝计数器
	metricNameDeniedTotal = "xresmon.denied.total"
	// metricNameFailOpenTotal 探测失败放行计数器
	metricNameFailOpenTotal = "xresmon.failopen.total"
)

// Metrics 资源监控指标收集器
type Metrics struct {
	meter         metric.Meter
	checksTotal   metric.Int64Counter
	deniedTotal   metric.Int64Counter
	failOpenTotal metric.Int64Counter
}

// NewMetrics 创建指标收集器
// 如果 meterProvider 为 nil，返回 nil（不收集指标）
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xresmon",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	checksTotal, err := meter.Int64Counter(
		metricNameChecksTotal,
		metric.WithDescription("资源检查总数"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	deniedTotal, err := meter.Int64Counter(
		metricNameDeniedTotal,
		metric.WithDescription("因资源不足被拒绝的检查数"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	failOpenTotal, err := meter.Int64Counter(
		metricNameFailOpenTotal,
		metric.WithDescription("探测失败后放行的检查数"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		meter:         meter,
		checksTotal:   checksTotal,
		deniedTotal:   deniedTotal,
		failOpenTotal: failOpenTotal,
	}, nil
}

// RecordCheck 记录一次资源检查
func (m *Metrics) RecordCheck(ctx context.Context, canSpawn, failOpen bool) {
	if m == nil {
		return
	}

	// 使用 context.WithoutCancel 确保即使 ctx 被取消，指标仍能记录
	metricsCtx := context.WithoutCancel(ctx)

	attrs := metric.WithAttributes(attribute.Bool("can_spawn", canSpawn))
	m.checksTotal.Add(metricsCtx, 1, attrs)
	if !canSpawn {
		m.deniedTotal.Add(metricsCtx, 1, attrs)
	}
	if failOpen {
		m.failOpenTotal.Add(metricsCtx, 1, attrs)
	}
}
