package tiered

import "github.com/jonwraymond/toolcache/cache"

// Combined sums entry and byte totals across tiers. Hit rates are reported
// separately per tier rather than blended: the two stores answer different
// populations of lookups, so a single blended figure would mislead.
type Combined struct {
	TotalEntries   int64   `json:"total_entries"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	GlobalHitRate  float64 `json:"global_hit_rate"`
	ProjectHitRate float64 `json:"project_hit_rate"`
}

// Report carries stats for the requested tiers, plus the combined block when
// no scope was named.
type Report struct {
	Global   *cache.Stats `json:"global,omitempty"`
	Project  *cache.Stats `json:"project,omitempty"`
	Combined *Combined    `json:"combined,omitempty"`
}

// Stats returns statistics for the named tiers, or for every configured tier
// plus a combined block when no scope is given.
func (t *Store) Stats(scopes ...Scope) Report {
	t.mu.RLock()
	project := t.project
	t.mu.RUnlock()

	var report Report
	wantAll := len(scopes) == 0
	if wantAll {
		scopes = []Scope{ScopeGlobal, ScopeProject}
	}

	for _, scope := range scopes {
		switch scope {
		case ScopeGlobal:
			s := t.global.Stats()
			report.Global = &s
		case ScopeProject:
			if project != nil {
				s := project.Stats()
				report.Project = &s
			}
		}
	}

	if wantAll {
		combined := &Combined{}
		if report.Global != nil {
			combined.TotalEntries += report.Global.TotalEntries
			combined.TotalSizeBytes += report.Global.TotalSizeBytes
			combined.GlobalHitRate = report.Global.HitRate
		}
		if report.Project != nil {
			combined.TotalEntries += report.Project.TotalEntries
			combined.TotalSizeBytes += report.Project.TotalSizeBytes
			combined.ProjectHitRate = report.Project.HitRate
		}
		report.Combined = combined
	}
	return report
}
