package filecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

// newTestStore builds a store in a fresh temp directory with defaults, letting
// the caller tweak the config first.
func newTestStore(t *testing.T, mutate func(*cache.Config)) *Store {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg)
}

func TestStore_GetSetDelete(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	// Get on empty store is a miss
	if r := s.Get(ctx, "search:missing"); r.Hit {
		t.Error("Get on empty store should miss")
	}

	key := "search:golang generics"
	if !s.Set(ctx, key, map[string]any{"results": []any{"a", "b"}}, cache.SetOptions{}) {
		t.Fatal("Set should persist")
	}

	r := s.Get(ctx, key)
	if !r.Hit {
		t.Fatal("Get after Set should hit")
	}
	if r.Key != key {
		t.Errorf("Result key = %q, want %q", r.Key, key)
	}
	if r.Meta == nil {
		t.Fatal("Hit should carry metadata")
	}
	if r.Meta.Source != cache.SourceSearch {
		t.Errorf("Meta source = %q, want search (inferred from key prefix)", r.Meta.Source)
	}
	if r.Meta.AccessCount != 1 {
		t.Errorf("AccessCount after first Get = %d, want 1", r.Meta.AccessCount)
	}
	if r.Meta.OriginalKey != key {
		t.Errorf("OriginalKey = %q, want %q", r.Meta.OriginalKey, key)
	}

	var decoded struct {
		Results []string `json:"results"`
	}
	if err := r.Decode(&decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Results) != 2 || decoded.Results[0] != "a" {
		t.Errorf("Decoded value = %+v, want two results starting with a", decoded)
	}

	// Delete removes the pair
	if !s.Delete(ctx, key) {
		t.Error("Delete should report the entry existed")
	}
	if r := s.Get(ctx, key); r.Hit {
		t.Error("Get after Delete should miss")
	}

	// Delete is idempotent and reports absence
	if s.Delete(ctx, key) {
		t.Error("Delete on absent entry should report false")
	}
}

func TestStore_Expiry(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	key := "search:short-lived"
	if !s.Set(ctx, key, "value", cache.SetOptions{TTL: 50 * time.Millisecond}) {
		t.Fatal("Set should persist")
	}

	// Present immediately
	if !s.Get(ctx, key).Hit {
		t.Error("Get immediately after Set should hit")
	}

	time.Sleep(100 * time.Millisecond)

	// Expired entries read as misses and are removed eagerly
	if s.Get(ctx, key).Hit {
		t.Error("Get after expiry should miss")
	}

	dataPath, metaPath := s.pairPaths(key)
	if _, err := os.Stat(dataPath); !os.IsNotExist(err) {
		t.Error("Expired data file should be removed on read")
	}
	if _, err := os.Stat(metaPath); !os.IsNotExist(err) {
		t.Error("Expired meta file should be removed on read")
	}

	stats := s.Stats()
	if stats.ExpiredEvictions != 1 {
		t.Errorf("ExpiredEvictions = %d, want 1", stats.ExpiredEvictions)
	}
}

func TestStore_Disabled(t *testing.T) {
	s := newTestStore(t, func(cfg *cache.Config) { cfg.Enabled = false })
	ctx := context.Background()

	if s.Set(ctx, "search:k", "v", cache.SetOptions{}) {
		t.Error("Set on disabled store should drop")
	}
	if s.Get(ctx, "search:k").Hit {
		t.Error("Get on disabled store should miss")
	}
}

func TestStore_InvalidKey(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	if s.Set(ctx, "", "v", cache.SetOptions{}) {
		t.Error("Set with empty key should drop")
	}
	if s.Set(ctx, "key\nwith newline", "v", cache.SetOptions{}) {
		t.Error("Set with newline in key should drop")
	}
	if s.Set(ctx, strings.Repeat("x", cache.MaxKeyLength+1), "v", cache.SetOptions{}) {
		t.Error("Set with overlong key should drop")
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	key := "visit:https://example.com"
	if !s.Set(ctx, key, strings.Repeat("a", 100), cache.SetOptions{}) {
		t.Fatal("Set should persist")
	}
	if !s.Set(ctx, key, strings.Repeat("b", 40), cache.SetOptions{}) {
		t.Fatal("Overwrite should persist")
	}

	r := s.Get(ctx, key)
	if !r.Hit {
		t.Fatal("Get after overwrite should hit")
	}
	var v string
	if err := r.Decode(&v); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v != strings.Repeat("b", 40) {
		t.Error("Get should return the overwritten value")
	}

	// Accounting replaces the old footprint instead of double counting
	stats := s.Stats()
	if stats.TotalEntries != 1 {
		t.Errorf("TotalEntries after overwrite = %d, want 1", stats.TotalEntries)
	}
	wantSize := int64(42) // 40 bytes + quotes
	if stats.TotalSizeBytes != wantSize {
		t.Errorf("TotalSizeBytes after overwrite = %d, want %d", stats.TotalSizeBytes, wantSize)
	}
}

func TestStore_ShardedLayout(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	key := "search:layout-check"
	if !s.Set(ctx, key, "value", cache.SetOptions{}) {
		t.Fatal("Set should persist")
	}

	sum := sha256.Sum256([]byte(key))
	h := hex.EncodeToString(sum[:])
	shard := h[:2]

	dataPath := filepath.Join(s.Dir(), "data", shard, h+".json")
	metaPath := filepath.Join(s.Dir(), "meta", shard, h+".json")

	if _, err := os.Stat(dataPath); err != nil {
		t.Errorf("Data file not at sharded path %s: %v", dataPath, err)
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatalf("Meta file not at sharded path %s: %v", metaPath, err)
	}

	var meta cache.EntryMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("Meta file should be valid JSON: %v", err)
	}
	if meta.OriginalKey != key {
		t.Errorf("Persisted OriginalKey = %q, want %q", meta.OriginalKey, key)
	}
	if meta.Size != int64(len(`"value"`)) {
		t.Errorf("Persisted Size = %d, want %d", meta.Size, len(`"value"`))
	}
}

func TestStore_CorruptValueIsMiss(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	key := "analysis:corrupt"
	if !s.Set(ctx, key, "value", cache.SetOptions{}) {
		t.Fatal("Set should persist")
	}

	dataPath, _ := s.pairPaths(key)
	if err := os.WriteFile(dataPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Corrupting data file failed: %v", err)
	}

	if s.Get(ctx, key).Hit {
		t.Error("Get on corrupt value file should miss, not error")
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "search:a", "1", cache.SetOptions{})
	_ = s.Set(ctx, "visit:b", "2", cache.SetOptions{})
	_ = s.Get(ctx, "search:a")

	s.Clear(ctx)

	if s.Get(ctx, "search:a").Hit {
		t.Error("Get after Clear should miss")
	}
	stats := s.Stats()
	if stats.TotalEntries != 0 || stats.TotalSizeBytes != 0 {
		t.Errorf("Stats after Clear = %d entries / %d bytes, want 0 / 0", stats.TotalEntries, stats.TotalSizeBytes)
	}
	if stats.Hits != 0 {
		t.Errorf("Hits after Clear = %d, want 0 (Clear resets history)", stats.Hits)
	}
}

func TestStore_Has(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	if s.Has(ctx, "search:k") {
		t.Error("Has on empty store should be false")
	}
	_ = s.Set(ctx, "search:k", "v", cache.SetOptions{})
	if !s.Has(ctx, "search:k") {
		t.Error("Has after Set should be true")
	}
}

func TestStore_StatsCounting(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_ = s.Set(ctx, "search:k", "v", cache.SetOptions{})
	_ = s.Get(ctx, "search:k")  // hit
	_ = s.Get(ctx, "search:k")  // hit
	_ = s.Get(ctx, "search:nx") // miss
	_ = s.Get(ctx, "visit:nx")  // miss, attributed to visit

	stats := s.Stats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 2 {
		t.Errorf("Misses = %d, want 2", stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", stats.HitRate)
	}

	search := stats.BySource[cache.SourceSearch]
	if search.Hits != 2 || search.Misses != 1 {
		t.Errorf("search bucket = %d hits / %d misses, want 2 / 1", search.Hits, search.Misses)
	}
	visit := stats.BySource[cache.SourceVisit]
	if visit.Misses != 1 {
		t.Errorf("visit bucket misses = %d, want 1", visit.Misses)
	}
	if search.Entries != 1 {
		t.Errorf("search bucket entries = %d, want 1", search.Entries)
	}
}

func TestStore_AccessCountAccumulates(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	key := "embedding:doc"
	_ = s.Set(ctx, key, "v", cache.SetOptions{})

	for i := 1; i <= 3; i++ {
		r := s.Get(ctx, key)
		if !r.Hit {
			t.Fatalf("Get %d should hit", i)
		}
		if r.Meta.AccessCount != int64(i) {
			t.Errorf("AccessCount after Get %d = %d, want %d", i, r.Meta.AccessCount, i)
		}
	}
}

func TestStore_UnwritableDirFailsOpen(t *testing.T) {
	// A root that is a regular file makes every mkdir/write fail
	bad := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(bad, []byte("x"), 0o644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	cfg := cache.DefaultConfig()
	cfg.CacheDir = bad
	s := New(cfg)

	ctx := context.Background()
	if s.Set(ctx, "search:k", "v", cache.SetOptions{}) {
		t.Error("Set on unwritable store should drop")
	}
	if s.Get(ctx, "search:k").Hit {
		t.Error("Get on unwritable store should miss")
	}
	if n := s.EvictExpired(ctx); n != 0 {
		t.Errorf("EvictExpired on unwritable store = %d, want 0", n)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	const goroutines = 16
	const opsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			key := "search:concurrent"
			for j := 0; j < opsPerGoroutine; j++ {
				switch j % 3 {
				case 0:
					_ = s.Set(ctx, key, "value", cache.SetOptions{})
				case 1:
					_ = s.Get(ctx, key)
				case 2:
					_ = s.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	// Counters may drift under interleaving but must never go negative
	stats := s.Stats()
	if stats.TotalEntries < 0 || stats.TotalSizeBytes < 0 {
		t.Errorf("Counters went negative: %d entries / %d bytes", stats.TotalEntries, stats.TotalSizeBytes)
	}
}
