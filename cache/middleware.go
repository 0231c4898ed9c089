package cache

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/singleflight"
)

// ExecutorFunc is the function signature for the expensive operation being
// cached (a web search, a page fetch, an embedding computation).
type ExecutorFunc func(ctx context.Context, src Source, input any) (any, error)

// SkipRule determines whether to bypass caching for a given operation.
// Returns true if caching should be skipped.
type SkipRule func(src Source, tags []string) bool

// UnsafeTags mark operations with side effects that must never be served
// from cache.
var UnsafeTags = []string{"write", "danger", "unsafe", "mutation", "delete"}

// DefaultSkipRule skips caching for operations with unsafe tags.
// Tag matching is case-insensitive.
func DefaultSkipRule(_ Source, tags []string) bool {
	for _, tag := range tags {
		tagLower := strings.ToLower(tag)
		for _, unsafe := range UnsafeTags {
			if tagLower == unsafe {
				return true
			}
		}
	}
	return false
}

// Middleware wraps tool execution with caching. Concurrent executions of the
// same key are collapsed into one upstream call via singleflight.
type Middleware struct {
	store    Store
	keyer    Keyer
	config   Config
	skipRule SkipRule
	group    singleflight.Group
}

// NewMiddleware creates a caching middleware over a store.
// If keyer is nil, DefaultKeyer is used; if skipRule is nil, DefaultSkipRule.
func NewMiddleware(store Store, keyer Keyer, cfg Config, skipRule SkipRule) (*Middleware, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &Middleware{
		store:    store,
		keyer:    keyer,
		config:   cfg,
		skipRule: skipRule,
	}, nil
}

// Execute runs the operation with caching.
// On cache hit, returns the cached result without calling the executor.
// On cache miss, calls the executor and caches the result.
// Errors are NOT cached.
func (m *Middleware) Execute(ctx context.Context, src Source, input any, tags []string, executor ExecutorFunc) (json.RawMessage, error) {
	if executor == nil {
		return nil, ErrNilExecutor
	}
	if src == "" {
		src = SourceOther
	}

	if !m.config.Enabled || m.skipRule(src, tags) {
		return m.executeRaw(ctx, src, input, executor)
	}

	key, err := m.keyer.Key(src, input)
	if err != nil {
		// Key generation failed - execute without caching
		return m.executeRaw(ctx, src, input, executor)
	}

	if r := m.store.Get(ctx, key); r.Hit {
		return r.Value, nil
	}

	// Miss: collapse concurrent identical executions into one upstream call.
	v, err, _ := m.group.Do(key, func() (any, error) {
		raw, err := m.executeRaw(ctx, src, input, executor)
		if err != nil {
			return nil, err
		}
		m.store.Set(ctx, key, raw, SetOptions{Source: src, Tags: tags})
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

func (m *Middleware) executeRaw(ctx context.Context, src Source, input any, executor ExecutorFunc) (json.RawMessage, error) {
	result, err := executor(ctx, src, input)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
