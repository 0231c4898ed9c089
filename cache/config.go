package cache

import "time"

// Default configuration values.
const (
	DefaultMaxEntries   = 1000
	DefaultTTL          = time.Hour
	DefaultMaxSizeBytes = 100 * 1024 * 1024 // 100 MiB
)

// Config configures a cache store.
type Config struct {
	// Enabled gates the store. A disabled store misses every Get and drops
	// every Set.
	Enabled bool `json:"enabled"`

	// MaxEntries bounds the entry count. Zero means unbounded.
	MaxEntries int64 `json:"max_entries"`

	// DefaultTTL applies when neither a Set override nor a per-source TTL matches.
	DefaultTTL time.Duration `json:"default_ttl"`

	// MaxSizeBytes bounds the total serialized value bytes. Zero means unbounded.
	MaxSizeBytes int64 `json:"max_size_bytes"`

	// CacheDir is the root directory for the data/, meta/ trees and stats.json.
	CacheDir string `json:"cache_dir"`

	// TTLBySource overrides DefaultTTL per source.
	TTLBySource map[Source]time.Duration `json:"ttl_by_source"`

	// UseGlobalCache enables the user-wide global tier in the two-tier resolver.
	UseGlobalCache bool `json:"use_global_cache"`
}

// DefaultConfig returns the standard configuration: 1000 entries, 100 MiB,
// 1h default TTL, and per-source TTLs tuned to how fast each result kind
// goes stale (searches hourly, page visits daily, embeddings weekly).
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MaxEntries:   DefaultMaxEntries,
		DefaultTTL:   DefaultTTL,
		MaxSizeBytes: DefaultMaxSizeBytes,
		TTLBySource: map[Source]time.Duration{
			SourceSearch:    time.Hour,
			SourceVisit:     24 * time.Hour,
			SourceEmbedding: 7 * 24 * time.Hour,
			SourceAnalysis:  24 * time.Hour,
			SourceOther:     time.Hour,
		},
		UseGlobalCache: true,
	}
}

// TTLFor resolves the TTL for an entry. Precedence: explicit override,
// then the per-source TTL, then DefaultTTL.
func (c Config) TTLFor(src Source, override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if ttl, ok := c.TTLBySource[src]; ok && ttl > 0 {
		return ttl
	}
	return c.DefaultTTL
}

// Validate checks the configuration for unrecoverable problems. Engines
// swallow runtime errors, so configuration is the only place a caller can
// be told something is wrong.
func (c Config) Validate() error {
	if c.MaxEntries < 0 {
		return ErrInvalidMaxEntries
	}
	if c.MaxSizeBytes < 0 {
		return ErrInvalidMaxSize
	}
	if c.DefaultTTL < 0 {
		return ErrInvalidTTL
	}
	for _, ttl := range c.TTLBySource {
		if ttl < 0 {
			return ErrInvalidTTL
		}
	}
	return nil
}
