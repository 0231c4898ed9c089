package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

// InstrumentedStore decorates a cache.Store with tracing, metrics, and debug
// logging. The underlying engine stays telemetry-free; this wrapper is where
// every span and counter lives.
type InstrumentedStore struct {
	store   cache.Store
	scope   string
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// InstrumentStore wraps a store. scope labels the store in telemetry
// (conventionally "global" or "project").
func InstrumentStore(store cache.Store, scope string, obs Observer) (*InstrumentedStore, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &InstrumentedStore{
		store:   store,
		scope:   scope,
		tracer:  NewTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger().WithScope(scope),
	}, nil
}

// Get retrieves an entry, recording a hit or miss.
func (s *InstrumentedStore) Get(ctx context.Context, key string) cache.Result {
	meta := OpMeta{Op: "get", Scope: s.scope, Source: string(cache.SourceFromKey(key))}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	result := s.store.Get(ctx, key)

	duration := time.Since(start)
	s.tracer.EndSpan(span, nil)

	outcome := "miss"
	if result.Hit {
		outcome = "hit"
	}
	s.metrics.RecordOp(ctx, meta, duration, outcome)
	s.logger.Debug(ctx, "cache get",
		Field{Key: "outcome", Value: outcome},
		Field{Key: "query_hash", Value: cache.QueryHash(key)},
		Field{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000.0},
	)
	return result
}

// Set stores a value, recording whether it persisted.
func (s *InstrumentedStore) Set(ctx context.Context, key string, value any, opts cache.SetOptions) bool {
	meta := OpMeta{Op: "set", Scope: s.scope, Source: string(opts.Source)}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	persisted := s.store.Set(ctx, key, value, opts)

	duration := time.Since(start)
	s.tracer.EndSpan(span, nil)

	outcome := "dropped"
	if persisted {
		outcome = "stored"
	}
	s.metrics.RecordOp(ctx, meta, duration, outcome)
	s.observeUsage(ctx)

	if !persisted {
		s.logger.Warn(ctx, "cache set dropped",
			Field{Key: "query_hash", Value: cache.QueryHash(key)},
		)
	}
	return persisted
}

// Delete removes an entry.
func (s *InstrumentedStore) Delete(ctx context.Context, key string) bool {
	meta := OpMeta{Op: "delete", Scope: s.scope}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	deleted := s.store.Delete(ctx, key)

	s.tracer.EndSpan(span, nil)
	outcome := "absent"
	if deleted {
		outcome = "deleted"
	}
	s.metrics.RecordOp(ctx, meta, time.Since(start), outcome)
	s.observeUsage(ctx)
	return deleted
}

// Has probes existence (with Get's stats side effects).
func (s *InstrumentedStore) Has(ctx context.Context, key string) bool {
	return s.Get(ctx, key).Hit
}

// Clear empties the store.
func (s *InstrumentedStore) Clear(ctx context.Context) {
	meta := OpMeta{Op: "clear", Scope: s.scope}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	s.store.Clear(ctx)

	s.tracer.EndSpan(span, nil)
	s.metrics.RecordOp(ctx, meta, time.Since(start), "cleared")
	s.observeUsage(ctx)
	s.logger.Info(ctx, "cache cleared")
}

// Query scans entries without touching access stats.
func (s *InstrumentedStore) Query(ctx context.Context, q cache.Query) []cache.Entry {
	meta := OpMeta{Op: "query", Scope: s.scope, Source: string(q.Source)}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	entries := s.store.Query(ctx, q)

	s.tracer.EndSpan(span, nil)
	s.metrics.RecordOp(ctx, meta, time.Since(start), "ok")
	return entries
}

// EvictExpired sweeps expired entries.
func (s *InstrumentedStore) EvictExpired(ctx context.Context) int {
	meta := OpMeta{Op: "evict_expired", Scope: s.scope}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	evicted := s.store.EvictExpired(ctx)

	s.tracer.EndSpan(span, nil)
	s.metrics.RecordOp(ctx, meta, time.Since(start), "ok")
	s.metrics.RecordEvictions(ctx, s.scope, "expired", int64(evicted))
	s.observeUsage(ctx)

	if evicted > 0 {
		s.logger.Info(ctx, "expired entries evicted", Field{Key: "count", Value: evicted})
	}
	return evicted
}

// EvictLRU frees room for targetBytes.
func (s *InstrumentedStore) EvictLRU(ctx context.Context, targetBytes int64) int {
	meta := OpMeta{Op: "evict_lru", Scope: s.scope}
	ctx, span := s.tracer.StartSpan(ctx, meta)
	start := time.Now()

	evicted := s.store.EvictLRU(ctx, targetBytes)

	s.tracer.EndSpan(span, nil)
	s.metrics.RecordOp(ctx, meta, time.Since(start), "ok")
	s.metrics.RecordEvictions(ctx, s.scope, "lru", int64(evicted))
	s.observeUsage(ctx)

	if evicted > 0 {
		s.logger.Info(ctx, "lru eviction ran",
			Field{Key: "count", Value: evicted},
			Field{Key: "target_bytes", Value: targetBytes},
		)
	}
	return evicted
}

// Stats returns the underlying store's counters.
func (s *InstrumentedStore) Stats() cache.Stats {
	return s.store.Stats()
}

func (s *InstrumentedStore) observeUsage(ctx context.Context) {
	stats := s.store.Stats()
	s.metrics.ObserveUsage(ctx, s.scope, stats.TotalEntries, stats.TotalSizeBytes)
}

// Ensure InstrumentedStore implements the engine contract
var _ cache.Store = (*InstrumentedStore)(nil)
