package filecache

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonwraymond/toolcache/cache"
)

// BenchmarkStore_Get_Hit measures hit latency (two file reads plus a meta rewrite).
func BenchmarkStore_Get_Hit(b *testing.B) {
	cfg := cache.DefaultConfig()
	cfg.CacheDir = b.TempDir()
	s := New(cfg)
	ctx := context.Background()

	_ = s.Set(ctx, "search:key", "value", cache.SetOptions{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Get(ctx, "search:key")
	}
}

// BenchmarkStore_Get_Miss measures miss latency (one failed meta read).
func BenchmarkStore_Get_Miss(b *testing.B) {
	cfg := cache.DefaultConfig()
	cfg.CacheDir = b.TempDir()
	s := New(cfg)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Get(ctx, "search:missing")
	}
}

// BenchmarkStore_Set measures write latency for distinct keys.
func BenchmarkStore_Set(b *testing.B) {
	cfg := cache.DefaultConfig()
	cfg.CacheDir = b.TempDir()
	cfg.MaxEntries = 0 // avoid eviction scans dominating the measurement
	s := New(cfg)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set(ctx, fmt.Sprintf("search:key-%d", i), "value", cache.SetOptions{})
	}
}

// BenchmarkStore_Set_SameKey measures overwrite latency.
func BenchmarkStore_Set_SameKey(b *testing.B) {
	cfg := cache.DefaultConfig()
	cfg.CacheDir = b.TempDir()
	s := New(cfg)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set(ctx, "search:same", "value", cache.SetOptions{})
	}
}

// BenchmarkStore_Query measures a full metadata scan over a populated store.
func BenchmarkStore_Query(b *testing.B) {
	cfg := cache.DefaultConfig()
	cfg.CacheDir = b.TempDir()
	cfg.MaxEntries = 0
	s := New(cfg)
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		_ = s.Set(ctx, fmt.Sprintf("search:key-%d", i), "value", cache.SetOptions{})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Query(ctx, cache.Query{Source: cache.SourceSearch, Limit: 1000})
	}
}
