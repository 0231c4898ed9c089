package filecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

const (
	dataDirName    = "data"
	metaDirName    = "meta"
	statsName      = "stats.json"
	dirPerm        = 0o755
	filePerm       = 0o644
	fileNameExt    = ".json"
	shardHexLen    = 2
	defaultDirName = "toolcache"
)

// Store is the file-backed cache engine. All methods are safe for concurrent
// use within a single process; there is no per-key locking and no
// cross-process coordination.
type Store struct {
	config  cache.Config
	root    string
	dataDir string
	metaDir string

	mu    sync.Mutex // guards stats
	stats cache.Stats
}

// New constructs a store rooted at cfg.CacheDir (or a temp-dir default when
// empty). Construction never fails: directory errors are swallowed and the
// store fails open, with subsequent operations degrading to misses.
func New(cfg cache.Config) *Store {
	root := cfg.CacheDir
	if root == "" {
		root = filepath.Join(os.TempDir(), defaultDirName)
	}

	s := &Store{
		config:  cfg,
		root:    root,
		dataDir: filepath.Join(root, dataDirName),
		metaDir: filepath.Join(root, metaDirName),
		stats:   cache.NewStats(),
	}

	// Fail open: a store on an unwritable directory still constructs; every
	// operation on it will individually degrade to a miss.
	_ = os.MkdirAll(s.dataDir, dirPerm)
	_ = os.MkdirAll(s.metaDir, dirPerm)

	s.loadStats()
	return s
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.root
}

// Config returns the store's configuration.
func (s *Store) Config() cache.Config {
	return s.config
}

// hashKey returns the full SHA-256 hex digest used for file addressing.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// pairPaths derives the data and meta file paths for a key. Both share the
// same hash-derived name so one digest identifies the pair.
func (s *Store) pairPaths(key string) (dataPath, metaPath string) {
	h := hashKey(key)
	shard := h[:shardHexLen]
	name := h + fileNameExt
	return filepath.Join(s.dataDir, shard, name), filepath.Join(s.metaDir, shard, name)
}

// Get retrieves an entry. Absent, corrupt, or expired records are uniformly
// misses; expired pairs are deleted eagerly so they do not linger until the
// next sweep.
func (s *Store) Get(_ context.Context, key string) cache.Result {
	miss := cache.Result{Key: key}
	if !s.config.Enabled {
		return miss
	}

	dataPath, metaPath := s.pairPaths(key)

	meta, ok := readMeta(metaPath)
	if !ok {
		s.recordMiss(cache.SourceFromKey(key))
		return miss
	}

	now := time.Now()
	if meta.Expired(now) {
		s.removePair(dataPath, metaPath, meta, true)
		s.recordMiss(meta.Source)
		return miss
	}

	data, err := os.ReadFile(dataPath)
	if err != nil || !json.Valid(data) {
		s.recordMiss(meta.Source)
		return miss
	}

	meta.LastAccessedAt = now
	meta.AccessCount++
	// Best effort: a failed meta rewrite loses one access-count bump, nothing more.
	_ = writeJSON(metaPath, meta, true)

	s.recordHit(meta.Source)
	return cache.Result{Hit: true, Key: key, Value: data, Meta: &meta}
}

// Set stores a value. Eviction runs before the write when the insert would
// exceed the size bound or the entry count is already at its limit. Reports
// whether the value was persisted.
func (s *Store) Set(ctx context.Context, key string, value any, opts cache.SetOptions) bool {
	if !s.config.Enabled {
		return false
	}
	if err := cache.ValidateKey(key); err != nil {
		return false
	}

	src := opts.Source
	if src == "" {
		src = cache.SourceFromKey(key)
	}
	ttl := s.config.TTLFor(src, opts.TTL)

	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	size := int64(len(data))

	if s.needsEviction(size) {
		s.EvictLRU(ctx, size)
	}

	dataPath, metaPath := s.pairPaths(key)
	oldMeta, hadOld := readMeta(metaPath)

	now := time.Now()
	meta := cache.EntryMeta{
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(ttl),
		AccessCount:    0,
		Size:           size,
		Source:         src,
		QueryHash:      cache.QueryHash(key),
		OriginalKey:    key,
		Tags:           opts.Tags,
	}

	// Data first, then meta. The pair is not atomic; see the package doc.
	if err := writeJSON(dataPath, json.RawMessage(data), false); err != nil {
		return false
	}
	if err := writeJSON(metaPath, meta, true); err != nil {
		_ = os.Remove(dataPath)
		return false
	}

	s.mu.Lock()
	if hadOld {
		s.subtractEntryLocked(oldMeta)
	}
	s.stats.TotalEntries++
	s.stats.TotalSizeBytes += size
	b := s.stats.ForSource(src)
	b.Entries++
	b.SizeBytes += size
	s.mu.Unlock()

	return true
}

// Delete removes an entry's value and metadata, ignoring individual unlink
// failures. Reports whether a metadata record existed.
func (s *Store) Delete(_ context.Context, key string) bool {
	dataPath, metaPath := s.pairPaths(key)
	meta, had := readMeta(metaPath)

	_ = os.Remove(dataPath)
	_ = os.Remove(metaPath)

	if had {
		s.mu.Lock()
		s.subtractEntryLocked(meta)
		s.mu.Unlock()
	}
	return had
}

// Has reports existence via Get, so it bumps access statistics as a side
// effect. Use Query for a non-destructive probe.
func (s *Store) Has(ctx context.Context, key string) bool {
	return s.Get(ctx, key).Hit
}

// Clear removes both trees, recreates empty roots, and resets statistics to
// a fresh baseline. Historical hit/miss counters are reset too.
func (s *Store) Clear(_ context.Context) {
	_ = os.RemoveAll(s.dataDir)
	_ = os.RemoveAll(s.metaDir)
	_ = os.MkdirAll(s.dataDir, dirPerm)
	_ = os.MkdirAll(s.metaDir, dirPerm)

	s.mu.Lock()
	s.stats = cache.NewStats()
	s.mu.Unlock()
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() cache.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Clone()
}

// removePair unlinks an entry's files and rolls its footprint out of the
// counters. expired attributes the removal to TTL expiry.
func (s *Store) removePair(dataPath, metaPath string, meta cache.EntryMeta, expired bool) {
	_ = os.Remove(dataPath)
	_ = os.Remove(metaPath)

	s.mu.Lock()
	s.subtractEntryLocked(meta)
	if expired {
		s.stats.ExpiredEvictions++
	} else {
		s.stats.LRUEvictions++
	}
	s.mu.Unlock()
}

func (s *Store) subtractEntryLocked(meta cache.EntryMeta) {
	s.stats.TotalEntries = cache.ClampedSub(s.stats.TotalEntries, 1)
	s.stats.TotalSizeBytes = cache.ClampedSub(s.stats.TotalSizeBytes, meta.Size)
	b := s.stats.ForSource(meta.Source)
	b.Entries = cache.ClampedSub(b.Entries, 1)
	b.SizeBytes = cache.ClampedSub(b.SizeBytes, meta.Size)
}

func (s *Store) recordHit(src cache.Source) {
	s.mu.Lock()
	s.stats.Hits++
	s.stats.ForSource(src).Hits++
	s.stats.RecomputeHitRate()
	s.mu.Unlock()
}

func (s *Store) recordMiss(src cache.Source) {
	s.mu.Lock()
	s.stats.Misses++
	s.stats.ForSource(src).Misses++
	s.stats.RecomputeHitRate()
	s.mu.Unlock()
}

// needsEviction reports whether inserting size more bytes would exceed the
// size bound, or the entry count is already at its limit.
func (s *Store) needsEviction(size int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.MaxSizeBytes > 0 && s.stats.TotalSizeBytes+size > s.config.MaxSizeBytes {
		return true
	}
	if s.config.MaxEntries > 0 && s.stats.TotalEntries >= s.config.MaxEntries {
		return true
	}
	return false
}

// readMeta parses a metadata file. Any failure reads as "no record".
func readMeta(path string) (cache.EntryMeta, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cache.EntryMeta{}, false
	}
	var meta cache.EntryMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cache.EntryMeta{}, false
	}
	return meta, true
}

// writeJSON serializes v and writes it via temp-file-then-rename so an
// individual file is never observed half-written. pretty selects indented
// output (metadata files are kept human-readable).
func writeJSON(path string, v any, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Ensure Store implements the engine contract
var _ cache.Store = (*Store)(nil)
