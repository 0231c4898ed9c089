package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache operation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOp records one cache operation with its duration and outcome
	// (hit, miss, stored, dropped, deleted, absent).
	RecordOp(ctx context.Context, meta OpMeta, duration time.Duration, outcome string)

	// RecordEvictions records evicted entries by kind (expired, lru).
	RecordEvictions(ctx context.Context, scope, kind string, count int64)

	// ObserveUsage records the store's current entry count and stored bytes.
	ObserveUsage(ctx context.Context, scope string, entries, sizeBytes int64)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	opCount      metric.Int64Counter
	opDuration   metric.Float64Histogram
	evictedCount metric.Int64Counter
	entriesGauge metric.Int64Gauge
	bytesGauge   metric.Int64Gauge
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	opCount, err := meter.Int64Counter(
		"cache.op.total",
		metric.WithDescription("Total number of cache operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	opDuration, err := meter.Float64Histogram(
		"cache.op.duration_ms",
		metric.WithDescription("Cache operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evictedCount, err := meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Total number of evicted entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	entriesGauge, err := meter.Int64Gauge(
		"cache.entries",
		metric.WithDescription("Current number of cached entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	bytesGauge, err := meter.Int64Gauge(
		"cache.size_bytes",
		metric.WithDescription("Current stored value bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		opCount:      opCount,
		opDuration:   opDuration,
		evictedCount: evictedCount,
		entriesGauge: entriesGauge,
		bytesGauge:   bytesGauge,
	}, nil
}

// RecordOp records metrics for one cache operation.
func (m *metricsImpl) RecordOp(ctx context.Context, meta OpMeta, duration time.Duration, outcome string) {
	attrs := append(meta.attributes(), attribute.String("cache.outcome", outcome))
	opt := metric.WithAttributes(attrs...)

	m.opCount.Add(ctx, 1, opt)
	m.opDuration.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

// RecordEvictions records evicted entries by kind.
func (m *metricsImpl) RecordEvictions(ctx context.Context, scope, kind string, count int64) {
	if count <= 0 {
		return
	}
	m.evictedCount.Add(ctx, count, metric.WithAttributes(
		attribute.String("cache.scope", scope),
		attribute.String("cache.eviction", kind),
	))
}

// ObserveUsage records the store's current footprint.
func (m *metricsImpl) ObserveUsage(ctx context.Context, scope string, entries, sizeBytes int64) {
	opt := metric.WithAttributes(attribute.String("cache.scope", scope))
	m.entriesGauge.Record(ctx, entries, opt)
	m.bytesGauge.Record(ctx, sizeBytes, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordOp(context.Context, OpMeta, time.Duration, string) {}
func (noopMetrics) RecordEvictions(context.Context, string, string, int64)  {}
func (noopMetrics) ObserveUsage(context.Context, string, int64, int64)      {}

// NewNoopMetrics creates a no-op Metrics.
func NewNoopMetrics() Metrics {
	return noopMetrics{}
}
