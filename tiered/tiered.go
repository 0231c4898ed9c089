package tiered

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/toolcache/cache"
	"github.com/jonwraymond/toolcache/filecache"
)

// Scope names one of the two cooperating tiers.
type Scope string

// Tiers.
const (
	ScopeGlobal  Scope = "global"
	ScopeProject Scope = "project"
)

// globalDirName is the directory under the base dir holding the global tier.
const globalDirName = "global-cache"

// defaultBaseDirName is the user-home-scoped default base directory.
const defaultBaseDirName = ".toolcache"

// ScopedResult is a cache result annotated with the tier that produced it.
// Scope is empty on an overall miss.
type ScopedResult struct {
	cache.Result
	Scope Scope `json:"scope,omitempty"`
}

// SetOptions extends the engine's set options with an explicit target tier.
// An empty Scope writes to the preferred tier.
type SetOptions struct {
	cache.SetOptions
	Scope Scope
}

// Existence reports whether a key exists in any tier and which tier matched.
type Existence struct {
	Exists bool  `json:"exists"`
	Scope  Scope `json:"scope,omitempty"`
}

// Counts carries per-tier eviction counts.
type Counts struct {
	Global  int `json:"global"`
	Project int `json:"project"`
}

// Options configures the resolver.
type Options struct {
	// BaseDir is the parent of the global tier's directory. Empty defaults to
	// ~/.toolcache (temp dir if the home directory cannot be resolved).
	BaseDir string

	// Config is the engine configuration template for both tiers. CacheDir is
	// derived per tier and need not be set. A zero Config uses DefaultConfig.
	Config cache.Config

	// PreferProject makes a bound project tier the preferred one.
	PreferProject bool
}

// Store resolves reads and writes across a global and an optional project
// tier. Safe for concurrent use; policy flags are guarded independently of
// the underlying engines.
type Store struct {
	mu            sync.RWMutex
	global        *filecache.Store
	project       *filecache.Store
	enabled       bool
	preferProject bool
	template      cache.Config
}

// New constructs the resolver with its global tier. Construction never
// fails; the global engine fails open like any file store.
func New(opts Options) *Store {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = cache.DefaultConfig()
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		baseDir = filepath.Join(home, defaultBaseDirName)
	}

	globalCfg := cfg
	globalCfg.CacheDir = filepath.Join(baseDir, globalDirName)

	return &Store{
		global:        filecache.New(globalCfg),
		enabled:       cfg.Enabled && cfg.UseGlobalCache,
		preferProject: opts.PreferProject,
		template:      cfg,
	}
}

func isZeroConfig(cfg cache.Config) bool {
	return !cfg.Enabled && cfg.MaxEntries == 0 && cfg.DefaultTTL == 0 &&
		cfg.MaxSizeBytes == 0 && cfg.CacheDir == "" && cfg.TTLBySource == nil
}

// tierRef pairs a configured engine with its scope for ordered resolution.
type tierRef struct {
	scope Scope
	store *filecache.Store
}

// order returns the configured tiers in resolution order: the project tier
// first when bound and preferred, the (enabled) global tier otherwise, with
// the remaining configured tier as fallback.
func (t *Store) order() []tierRef {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var tiers []tierRef
	project := tierRef{ScopeProject, t.project}
	global := tierRef{ScopeGlobal, t.global}

	if t.project != nil && t.preferProject {
		tiers = append(tiers, project)
		if t.enabled {
			tiers = append(tiers, global)
		}
		return tiers
	}
	if t.enabled {
		tiers = append(tiers, global)
	}
	if t.project != nil {
		tiers = append(tiers, project)
	}
	return tiers
}

// Get tries tiers in preference order and falls through to the other
// configured tier before declaring a miss, so a project-scoped miss does not
// hide a usable global hit.
func (t *Store) Get(ctx context.Context, key string) ScopedResult {
	for _, tier := range t.order() {
		if r := tier.store.Get(ctx, key); r.Hit {
			return ScopedResult{Result: r, Scope: tier.scope}
		}
	}
	return ScopedResult{Result: cache.Result{Key: key}}
}

// Set writes to exactly one tier: the explicit scope when given, the
// preferred tier otherwise. Writing to a disabled global tier or an unbound
// project tier is a silent no-op; the value is discarded, not deferred.
func (t *Store) Set(ctx context.Context, key string, value any, opts SetOptions) bool {
	switch opts.Scope {
	case ScopeGlobal:
		t.mu.RLock()
		enabled := t.enabled
		t.mu.RUnlock()
		if !enabled {
			return false
		}
		return t.global.Set(ctx, key, value, opts.SetOptions)

	case ScopeProject:
		t.mu.RLock()
		project := t.project
		t.mu.RUnlock()
		if project == nil {
			return false
		}
		return project.Set(ctx, key, value, opts.SetOptions)

	default:
		tiers := t.order()
		if len(tiers) == 0 {
			return false
		}
		return tiers[0].store.Set(ctx, key, value, opts.SetOptions)
	}
}

// Delete removes the key from the named tiers, or from both (global first,
// then project if bound) when no scope is given. Reports whether any tier
// held a record.
func (t *Store) Delete(ctx context.Context, key string, scopes ...Scope) bool {
	t.mu.RLock()
	project := t.project
	t.mu.RUnlock()

	if len(scopes) == 0 {
		scopes = []Scope{ScopeGlobal, ScopeProject}
	}

	deleted := false
	for _, scope := range scopes {
		switch scope {
		case ScopeGlobal:
			deleted = t.global.Delete(ctx, key) || deleted
		case ScopeProject:
			if project != nil {
				deleted = project.Delete(ctx, key) || deleted
			}
		}
	}
	return deleted
}

// Has checks tiers in the same preference order as Get, short-circuiting on
// the first existing entry. Like the engine's Has, it bumps access stats.
func (t *Store) Has(ctx context.Context, key string) Existence {
	for _, tier := range t.order() {
		if tier.store.Get(ctx, key).Hit {
			return Existence{Exists: true, Scope: tier.scope}
		}
	}
	return Existence{}
}

// Query scans the named tiers, or all configured tiers in preference order
// when no scope is given. q.Limit bounds the combined result, so a full
// preferred tier can shadow the other one.
func (t *Store) Query(ctx context.Context, q cache.Query, scopes ...Scope) []cache.Entry {
	tiers := t.order()
	if len(scopes) > 0 {
		var filtered []tierRef
		for _, tier := range tiers {
			for _, scope := range scopes {
				if tier.scope == scope {
					filtered = append(filtered, tier)
				}
			}
		}
		tiers = filtered
	}

	limit := q.Limit
	if limit <= 0 {
		limit = cache.DefaultQueryLimit
	}

	var entries []cache.Entry
	for _, tier := range tiers {
		remaining := limit - len(entries)
		if remaining <= 0 {
			break
		}
		tq := q
		tq.Limit = remaining
		entries = append(entries, tier.store.Query(ctx, tq)...)
	}
	return entries
}

// Clear clears the named tiers, or both when no scope is given.
func (t *Store) Clear(ctx context.Context, scopes ...Scope) {
	t.mu.RLock()
	project := t.project
	t.mu.RUnlock()

	if len(scopes) == 0 {
		scopes = []Scope{ScopeGlobal, ScopeProject}
	}
	for _, scope := range scopes {
		switch scope {
		case ScopeGlobal:
			t.global.Clear(ctx)
		case ScopeProject:
			if project != nil {
				project.Clear(ctx)
			}
		}
	}
}

// EvictExpired sweeps each configured tier concurrently and returns per-tier
// counts.
func (t *Store) EvictExpired(ctx context.Context) Counts {
	t.mu.RLock()
	project := t.project
	t.mu.RUnlock()

	var counts Counts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts.Global = t.global.EvictExpired(gctx)
		return nil
	})
	if project != nil {
		g.Go(func() error {
			counts.Project = project.EvictExpired(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return counts
}

// SaveStats persists both tiers' counter snapshots.
func (t *Store) SaveStats(ctx context.Context) error {
	t.mu.RLock()
	project := t.project
	t.mu.RUnlock()

	errs := []error{t.global.SaveStats(ctx)}
	if project != nil {
		errs = append(errs, project.SaveStats(ctx))
	}
	return errors.Join(errs...)
}

// SetProjectStore binds (or rebinds) the project tier to a directory.
func (t *Store) SetProjectStore(dir string) {
	cfg := t.template
	cfg.CacheDir = dir

	t.mu.Lock()
	t.project = filecache.New(cfg)
	t.mu.Unlock()
}

// ClearProjectStore unbinds the project tier. On-disk files are left intact.
func (t *Store) ClearProjectStore() {
	t.mu.Lock()
	t.project = nil
	t.mu.Unlock()
}

// HasProjectStore reports whether a project tier is bound.
func (t *Store) HasProjectStore() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.project != nil
}

// GlobalCacheDir returns the global tier's root directory.
func (t *Store) GlobalCacheDir() string {
	return t.global.Dir()
}

// SetEnabled gates the global tier for subsequent calls. Existing entries
// are untouched.
func (t *Store) SetEnabled(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	t.mu.Unlock()
}

// SetPreferProjectCache flips the preference order for subsequent calls.
// Entries are never moved between tiers.
func (t *Store) SetPreferProjectCache(prefer bool) {
	t.mu.Lock()
	t.preferProject = prefer
	t.mu.Unlock()
}
