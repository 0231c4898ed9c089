package cache

import "time"

// SourceStats breaks the aggregate counters down by entry source.
type SourceStats struct {
	Entries   int64 `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
}

// Stats is a store's running in-memory counters. Totals are maintained
// incrementally, not recomputed from a directory scan, so they can drift
// slightly under concurrent mutation; Clear resets them to a fresh baseline.
type Stats struct {
	TotalEntries     int64                   `json:"total_entries"`
	TotalSizeBytes   int64                   `json:"total_size_bytes"`
	Hits             int64                   `json:"hits"`
	Misses           int64                   `json:"misses"`
	HitRate          float64                 `json:"hit_rate"`
	ExpiredEvictions int64                   `json:"expired_evictions"`
	LRUEvictions     int64                   `json:"lru_evictions"`
	BySource         map[Source]*SourceStats `json:"by_source"`
	StatsStartedAt   time.Time               `json:"stats_started_at"`
}

// NewStats returns a zeroed baseline with every known source pre-seeded.
func NewStats() Stats {
	s := Stats{
		BySource:       make(map[Source]*SourceStats, 5),
		StatsStartedAt: time.Now(),
	}
	for _, src := range []Source{SourceSearch, SourceVisit, SourceEmbedding, SourceAnalysis, SourceOther} {
		s.BySource[src] = &SourceStats{}
	}
	return s
}

// ForSource returns the per-source bucket, creating it for unknown sources.
func (s *Stats) ForSource(src Source) *SourceStats {
	if s.BySource == nil {
		s.BySource = make(map[Source]*SourceStats)
	}
	b, ok := s.BySource[src]
	if !ok {
		b = &SourceStats{}
		s.BySource[src] = b
	}
	return b
}

// RecomputeHitRate refreshes HitRate from the hit and miss counters.
func (s *Stats) RecomputeHitRate() {
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	} else {
		s.HitRate = 0
	}
}

// Clone returns a deep copy so callers can hold a snapshot without racing
// the store's internal counters.
func (s Stats) Clone() Stats {
	out := s
	out.BySource = make(map[Source]*SourceStats, len(s.BySource))
	for src, b := range s.BySource {
		cp := *b
		out.BySource[src] = &cp
	}
	return out
}

// ClampedSub subtracts b from a, clamping at zero. Counters must never go
// negative even when eviction interleaves with concurrent deletes.
func ClampedSub(a, b int64) int64 {
	if a <= b {
		return 0
	}
	return a - b
}
