package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonwraymond/toolcache/cache"
)

// StoreCheckerConfig configures the cache store health checker.
type StoreCheckerConfig struct {
	// WarningUtilization is the fraction of either configured bound (entries
	// or bytes) that triggers degraded status. Default: 0.9.
	WarningUtilization float64
}

// checkedStore is what the checker needs from a store: its counters, its
// configuration, and where it lives on disk.
type checkedStore interface {
	Stats() cache.Stats
	Config() cache.Config
	Dir() string
}

// StoreChecker reports a cache store's health. Because the engine fails
// open, an unwritable directory never surfaces as an operation error; this
// checker is how an operator finds out.
type StoreChecker struct {
	name   string
	store  checkedStore
	config StoreCheckerConfig
}

// NewStoreChecker creates a checker for a store under the given name.
func NewStoreChecker(name string, store checkedStore, config StoreCheckerConfig) *StoreChecker {
	if config.WarningUtilization <= 0 || config.WarningUtilization >= 1 {
		config.WarningUtilization = 0.9
	}
	return &StoreChecker{name: name, store: store, config: config}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check performs the health check.
func (c *StoreChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	stats := c.store.Stats()
	cfg := c.store.Config()
	details := map[string]any{
		"dir":              c.store.Dir(),
		"total_entries":    stats.TotalEntries,
		"total_size_bytes": stats.TotalSizeBytes,
		"hit_rate":         stats.HitRate,
	}

	if err := probeWritable(c.store.Dir()); err != nil {
		return Unhealthy("cache directory is not writable", err).WithDetails(details)
	}

	if cfg.MaxEntries > 0 {
		util := float64(stats.TotalEntries) / float64(cfg.MaxEntries)
		if util >= c.config.WarningUtilization {
			return Degraded(fmt.Sprintf("entry count at %.0f%% of limit", util*100)).WithDetails(details)
		}
	}
	if cfg.MaxSizeBytes > 0 {
		util := float64(stats.TotalSizeBytes) / float64(cfg.MaxSizeBytes)
		if util >= c.config.WarningUtilization {
			return Degraded(fmt.Sprintf("stored bytes at %.0f%% of limit", util*100)).WithDetails(details)
		}
	}

	return Healthy("cache store ok").WithDetails(details)
}

// probeWritable writes and removes a marker file in dir.
func probeWritable(dir string) error {
	probe := filepath.Join(dir, ".health-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
