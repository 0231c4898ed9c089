package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonwraymond/toolcache/observe"
)

// Default intervals.
const (
	DefaultEvictInterval   = 10 * time.Minute
	DefaultPersistInterval = time.Minute
)

// Maintainable is the subset of a store the janitor drives.
type Maintainable interface {
	// EvictExpired removes expired entries and returns the count removed.
	EvictExpired(ctx context.Context) int

	// SaveStats persists the store's statistics snapshot.
	SaveStats(ctx context.Context) error
}

// Funcs adapts free functions to Maintainable, for stores whose native
// signatures differ (the tiered resolver reports per-tier eviction counts).
type Funcs struct {
	Evict   func(ctx context.Context) int
	Persist func(ctx context.Context) error
}

// EvictExpired calls the Evict func when set.
func (f Funcs) EvictExpired(ctx context.Context) int {
	if f.Evict == nil {
		return 0
	}
	return f.Evict(ctx)
}

// SaveStats calls the Persist func when set.
func (f Funcs) SaveStats(ctx context.Context) error {
	if f.Persist == nil {
		return nil
	}
	return f.Persist(ctx)
}

// Config sets the janitor's schedules. Zero intervals use the defaults.
type Config struct {
	EvictInterval   time.Duration
	PersistInterval time.Duration
}

// Janitor periodically sweeps and persists registered stores.
type Janitor struct {
	cron   *cron.Cron
	logger observe.Logger

	mu     sync.RWMutex
	stores map[string]Maintainable
}

// New creates a janitor with the given schedules. If logger is nil, a
// stderr logger at info level is used.
func New(cfg Config, logger observe.Logger) (*Janitor, error) {
	if cfg.EvictInterval <= 0 {
		cfg.EvictInterval = DefaultEvictInterval
	}
	if cfg.PersistInterval <= 0 {
		cfg.PersistInterval = DefaultPersistInterval
	}
	if logger == nil {
		logger = observe.NewLogger("info")
	}

	j := &Janitor{
		cron:   cron.New(),
		logger: logger,
		stores: make(map[string]Maintainable),
	}

	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", cfg.EvictInterval), j.evictAll); err != nil {
		return nil, fmt.Errorf("maintenance: scheduling eviction: %w", err)
	}
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", cfg.PersistInterval), j.persistAll); err != nil {
		return nil, fmt.Errorf("maintenance: scheduling stats persistence: %w", err)
	}

	return j, nil
}

// Register adds a store under a label. Registering the same label replaces
// the previous store; registration after Start is picked up on the next tick.
func (j *Janitor) Register(name string, store Maintainable) {
	j.mu.Lock()
	j.stores[name] = store
	j.mu.Unlock()
}

// Unregister removes a store from upkeep.
func (j *Janitor) Unregister(name string) {
	j.mu.Lock()
	delete(j.stores, name)
	j.mu.Unlock()
}

// Start begins the schedules. Idempotent.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedules and waits for any in-flight run to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) snapshot() map[string]Maintainable {
	j.mu.RLock()
	defer j.mu.RUnlock()
	stores := make(map[string]Maintainable, len(j.stores))
	for name, s := range j.stores {
		stores[name] = s
	}
	return stores
}

func (j *Janitor) evictAll() {
	ctx := context.Background()
	for name, store := range j.snapshot() {
		if evicted := store.EvictExpired(ctx); evicted > 0 {
			j.logger.Info(ctx, "janitor evicted expired entries",
				observe.Field{Key: "store", Value: name},
				observe.Field{Key: "count", Value: evicted},
			)
		}
	}
}

func (j *Janitor) persistAll() {
	ctx := context.Background()
	for name, store := range j.snapshot() {
		if err := store.SaveStats(ctx); err != nil {
			j.logger.Warn(ctx, "janitor failed to persist stats",
				observe.Field{Key: "store", Value: name},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
}
