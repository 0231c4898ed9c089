package filecache

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

func TestStore_Query_SourceFilter(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "search:q1", "v", cache.SetOptions{})
	_ = s.Set(ctx, "search:q2", "v", cache.SetOptions{})
	_ = s.Set(ctx, "visit:page", "v", cache.SetOptions{})

	entries := s.Query(ctx, cache.Query{Source: cache.SourceSearch})
	if len(entries) != 2 {
		t.Fatalf("Query(search) returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Meta.Source != cache.SourceSearch {
			t.Errorf("Entry %q has source %q, want search", e.Key, e.Meta.Source)
		}
	}

	// Empty source matches everything
	all := s.Query(ctx, cache.Query{})
	if len(all) != 3 {
		t.Errorf("Query with no filter returned %d entries, want 3", len(all))
	}
}

func TestStore_Query_TagsAreANDed(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "search:a", "v", cache.SetOptions{Tags: []string{"docs", "golang"}})
	_ = s.Set(ctx, "search:b", "v", cache.SetOptions{Tags: []string{"docs"}})
	_ = s.Set(ctx, "search:c", "v", cache.SetOptions{})

	both := s.Query(ctx, cache.Query{Tags: []string{"docs", "golang"}})
	if len(both) != 1 {
		t.Fatalf("Query(docs AND golang) returned %d entries, want 1", len(both))
	}
	if both[0].Key != "search:a" {
		t.Errorf("Matched key = %q, want search:a", both[0].Key)
	}

	one := s.Query(ctx, cache.Query{Tags: []string{"docs"}})
	if len(one) != 2 {
		t.Errorf("Query(docs) returned %d entries, want 2", len(one))
	}
}

func TestStore_Query_IncludeExpired(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "search:stale", "v", cache.SetOptions{TTL: 50 * time.Millisecond})
	_ = s.Set(ctx, "search:fresh", "v", cache.SetOptions{TTL: time.Hour})

	time.Sleep(100 * time.Millisecond)

	// Default excludes expired entries (without deleting them)
	live := s.Query(ctx, cache.Query{})
	if len(live) != 1 {
		t.Fatalf("Query returned %d entries, want 1", len(live))
	}
	if live[0].Key != "search:fresh" {
		t.Errorf("Live entry = %q, want search:fresh", live[0].Key)
	}

	withExpired := s.Query(ctx, cache.Query{IncludeExpired: true})
	if len(withExpired) != 2 {
		t.Errorf("Query(IncludeExpired) returned %d entries, want 2", len(withExpired))
	}
}

func TestStore_Query_Limit(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = s.Set(ctx, "search:q"+string(rune('a'+i)), "v", cache.SetOptions{})
	}

	limited := s.Query(ctx, cache.Query{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("Query(Limit: 2) returned %d entries, want 2", len(limited))
	}
}

func TestStore_Query_NonDestructive(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "search:q", "v", cache.SetOptions{})
	before := s.Stats()

	entries := s.Query(ctx, cache.Query{})
	if len(entries) != 1 {
		t.Fatalf("Query returned %d entries, want 1", len(entries))
	}
	if entries[0].Meta.AccessCount != 0 {
		t.Errorf("Query should not bump AccessCount, got %d", entries[0].Meta.AccessCount)
	}

	after := s.Stats()
	if after.Hits != before.Hits || after.Misses != before.Misses {
		t.Error("Query should not mutate hit/miss counters")
	}
}
