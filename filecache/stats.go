package filecache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// loadStats merges a previously saved stats.json snapshot into the freshly
// constructed baseline. Fields present in the snapshot overwrite defaults;
// a missing or corrupt snapshot leaves the baseline untouched. Counters are
// deliberately not reconciled against a directory scan: the snapshot may be
// slightly stale after an unclean shutdown, which is an accepted trade for a
// cheap startup.
func (s *Store) loadStats() {
	data, err := os.ReadFile(s.statsPath())
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = json.Unmarshal(data, &s.stats)
	s.stats.RecomputeHitRate()
}

// SaveStats persists the current in-memory counters to stats.json. The engine
// never calls this on its own; a caller-owned timer (see the maintenance
// package) drives periodic persistence.
func (s *Store) SaveStats(_ context.Context) error {
	s.mu.Lock()
	snapshot := s.stats.Clone()
	s.mu.Unlock()

	return writeJSON(s.statsPath(), snapshot, true)
}

func (s *Store) statsPath() string {
	return filepath.Join(s.root, statsName)
}
