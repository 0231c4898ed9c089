package filecache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

// Query scans entry metadata and assembles full entries for every record
// matching the filter. Access statistics are not mutated: querying is a
// non-destructive probe.
func (s *Store) Query(_ context.Context, q cache.Query) []cache.Entry {
	limit := q.Limit
	if limit <= 0 {
		limit = cache.DefaultQueryLimit
	}

	now := time.Now()
	var entries []cache.Entry
	for _, rec := range s.scanMetas() {
		if len(entries) >= limit {
			break
		}
		if !q.IncludeExpired && rec.meta.Expired(now) {
			continue
		}
		if q.Source != "" && rec.meta.Source != q.Source {
			continue
		}
		if !rec.meta.HasTags(q.Tags) {
			continue
		}

		data, err := os.ReadFile(rec.dataPath)
		if err != nil || !json.Valid(data) {
			// Orphaned or corrupt value file; the pair is unreadable as an entry.
			continue
		}
		entries = append(entries, cache.Entry{
			Key:   rec.meta.OriginalKey,
			Value: data,
			Meta:  rec.meta,
		})
	}
	return entries
}
