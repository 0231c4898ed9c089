package filecache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

// metaRecord pairs a parsed metadata record with the file paths of its entry.
type metaRecord struct {
	dataPath string
	metaPath string
	meta     cache.EntryMeta
}

// EvictExpired scans every metadata file and removes entries past their
// ExpiresAt. A scan failure (missing directory) is swallowed and reads as
// zero evictions.
func (s *Store) EvictExpired(_ context.Context) int {
	now := time.Now()
	evicted := 0
	for _, rec := range s.scanMetas() {
		if rec.meta.Expired(now) {
			s.removePair(rec.dataPath, rec.metaPath, rec.meta, true)
			evicted++
		}
	}
	return evicted
}

// EvictLRU frees room for targetBytes. Expired entries go first (cheap wins);
// if the projected usage still exceeds the configured bounds, remaining
// entries are removed oldest-lastAccessedAt-first until both the size and
// count bounds fit or candidates run out. Returns the total entries removed.
//
// This is a full-directory scan, O(total entries). Intended entry counts are
// modest (hundreds to low thousands), so a scan beats maintaining an index.
func (s *Store) EvictLRU(ctx context.Context, targetBytes int64) int {
	evicted := s.EvictExpired(ctx)
	if s.fits(targetBytes) {
		return evicted
	}

	candidates := s.scanMetas()
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].meta.LastAccessedAt.Before(candidates[j].meta.LastAccessedAt)
	})

	for _, rec := range candidates {
		if s.fits(targetBytes) {
			break
		}
		s.removePair(rec.dataPath, rec.metaPath, rec.meta, false)
		evicted++
	}
	return evicted
}

// fits reports whether targetBytes more would stay within both bounds.
func (s *Store) fits(targetBytes int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.MaxSizeBytes > 0 && s.stats.TotalSizeBytes+targetBytes > s.config.MaxSizeBytes {
		return false
	}
	if s.config.MaxEntries > 0 && s.stats.TotalEntries >= s.config.MaxEntries {
		return false
	}
	return true
}

// scanMetas walks the meta tree and parses every record. Corrupt or
// unreadable files are skipped; a missing tree yields an empty slice.
func (s *Store) scanMetas() []metaRecord {
	var records []metaRecord
	_ = filepath.WalkDir(s.metaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, fileNameExt) {
			return nil
		}
		meta, ok := readMeta(path)
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(s.metaDir, path)
		if err != nil {
			return nil
		}
		records = append(records, metaRecord{
			dataPath: filepath.Join(s.dataDir, rel),
			metaPath: path,
			meta:     meta,
		})
		return nil
	})
	return records
}
