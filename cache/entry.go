package cache

import (
	"encoding/json"
	"strings"
	"time"
)

// Source identifies the kind of operation that produced a cached value.
// Entries are namespaced and given TTL defaults per source.
type Source string

// Known sources.
const (
	SourceSearch    Source = "search"
	SourceVisit     Source = "visit"
	SourceEmbedding Source = "embedding"
	SourceAnalysis  Source = "analysis"
	SourceOther     Source = "other"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceSearch, SourceVisit, SourceEmbedding, SourceAnalysis, SourceOther:
		return true
	}
	return false
}

// ParseSource maps a string to a known Source, falling back to SourceOther.
func ParseSource(s string) Source {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if src.Valid() {
		return src
	}
	return SourceOther
}

// EntryMeta is the metadata record persisted alongside every cached value.
// It lives in its own file so queries and eviction scans never touch the
// (potentially large) value files.
type EntryMeta struct {
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	AccessCount    int64     `json:"access_count"`
	Size           int64     `json:"size"`
	Source         Source    `json:"source"`
	QueryHash      string    `json:"query_hash"`
	OriginalKey    string    `json:"original_key"`
	Tags           []string  `json:"tags,omitempty"`
}

// Expired reports whether the entry's validity window has passed at now.
func (m EntryMeta) Expired(now time.Time) bool {
	return m.ExpiresAt.Before(now)
}

// HasTags reports whether the entry carries every tag in want (AND semantics).
// An empty want always matches.
func (m EntryMeta) HasTags(want []string) bool {
	for _, w := range want {
		found := false
		for _, t := range m.Tags {
			if t == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Entry is a fully assembled cache record as returned by Query. It exists
// only transiently: value and metadata are persisted as two separate files
// sharing a derived name, never as one combined record.
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
	Meta  EntryMeta       `json:"meta"`
}

// Result is the outcome of a Get. A miss carries only the key; a hit carries
// the raw serialized value and the (freshly updated) metadata.
type Result struct {
	Hit   bool            `json:"hit"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
	Meta  *EntryMeta      `json:"meta,omitempty"`
}

// Decode unmarshals the cached value into v. On a miss it decodes nothing
// and returns nil.
func (r Result) Decode(v any) error {
	if !r.Hit || len(r.Value) == 0 {
		return nil
	}
	return json.Unmarshal(r.Value, v)
}

// SetOptions controls how a value is stored.
type SetOptions struct {
	// TTL overrides the configured TTL for this entry. Zero means "use the
	// per-source or default TTL from the store's Config".
	TTL time.Duration

	// Source namespaces the entry and selects its TTL default.
	// Empty defaults to SourceOther.
	Source Source

	// Tags are free-form labels matched with AND semantics by Query.
	Tags []string
}

// DefaultQueryLimit caps Query results when no limit is given.
const DefaultQueryLimit = 100

// Query filters entries during a metadata scan.
type Query struct {
	// Source restricts results to an exact source. Empty matches all.
	Source Source

	// Tags restricts results to entries carrying every listed tag.
	Tags []string

	// IncludeExpired includes entries past their ExpiresAt. Default excludes them.
	IncludeExpired bool

	// Limit caps the number of results. Zero means DefaultQueryLimit.
	Limit int
}
