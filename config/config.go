package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/toolcache/cache"
)

// envPrefix is the prefix for environment overrides (TOOLCACHE_CACHE_MAX_ENTRIES, ...).
const envPrefix = "TOOLCACHE"

// CacheSection configures the cache engine.
type CacheSection struct {
	Enabled        bool                     `mapstructure:"enabled"`
	MaxEntries     int64                    `mapstructure:"max_entries"`
	DefaultTTL     time.Duration            `mapstructure:"default_ttl"`
	MaxSizeBytes   int64                    `mapstructure:"max_size_bytes"`
	CacheDir       string                   `mapstructure:"cache_dir"`
	TTLBySource    map[string]time.Duration `mapstructure:"ttl_by_source"`
	UseGlobalCache bool                     `mapstructure:"use_global_cache"`
}

// TieredSection configures the two-tier resolver.
type TieredSection struct {
	BaseDir       string `mapstructure:"base_dir"`
	ProjectDir    string `mapstructure:"project_dir"`
	PreferProject bool   `mapstructure:"prefer_project"`
}

// ObserveSection configures telemetry.
type ObserveSection struct {
	ServiceName      string  `mapstructure:"service_name"`
	Version          string  `mapstructure:"version"`
	LogLevel         string  `mapstructure:"log_level"`
	TracingExporter  string  `mapstructure:"tracing_exporter"`
	TracingSamplePct float64 `mapstructure:"tracing_sample_pct"`
	MetricsExporter  string  `mapstructure:"metrics_exporter"`
}

// MaintenanceSection configures the janitor schedules.
type MaintenanceSection struct {
	EvictInterval   time.Duration `mapstructure:"evict_interval"`
	PersistInterval time.Duration `mapstructure:"persist_interval"`
}

// File is the full configuration document.
type File struct {
	Cache       CacheSection       `mapstructure:"cache"`
	Tiered      TieredSection      `mapstructure:"tiered"`
	Observe     ObserveSection     `mapstructure:"observe"`
	Maintenance MaintenanceSection `mapstructure:"maintenance"`
}

// Load reads configuration from path (optional; env-only when empty), applies
// defaults and TOOLCACHE_* environment overrides, and expands `${VAR}`
// references in directory paths.
func Load(path string) (*File, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}

	for _, dir := range []*string{&f.Cache.CacheDir, &f.Tiered.BaseDir, &f.Tiered.ProjectDir} {
		if *dir == "" {
			continue
		}
		expanded, err := ExpandEnvStrict(*dir)
		if err != nil {
			return nil, fmt.Errorf("config: expanding %q: %w", *dir, err)
		}
		*dir = expanded
	}

	cc := f.CacheConfig()
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func setDefaults(v *viper.Viper) {
	def := cache.DefaultConfig()
	v.SetDefault("cache.enabled", def.Enabled)
	v.SetDefault("cache.max_entries", def.MaxEntries)
	v.SetDefault("cache.default_ttl", def.DefaultTTL)
	v.SetDefault("cache.max_size_bytes", def.MaxSizeBytes)
	v.SetDefault("cache.use_global_cache", def.UseGlobalCache)
	// Keys without meaningful defaults still need registering so AutomaticEnv
	// overrides reach Unmarshal.
	v.SetDefault("cache.cache_dir", "")
	v.SetDefault("tiered.base_dir", "")
	v.SetDefault("tiered.project_dir", "")
	v.SetDefault("tiered.prefer_project", false)
	for src, ttl := range def.TTLBySource {
		v.SetDefault("cache.ttl_by_source."+string(src), ttl)
	}

	v.SetDefault("observe.service_name", "toolcache")
	v.SetDefault("observe.log_level", "info")
	v.SetDefault("observe.tracing_exporter", "none")
	v.SetDefault("observe.metrics_exporter", "none")
	v.SetDefault("observe.tracing_sample_pct", 1.0)

	v.SetDefault("maintenance.evict_interval", 10*time.Minute)
	v.SetDefault("maintenance.persist_interval", time.Minute)
}

// CacheConfig converts the cache section to the engine's Config.
func (f *File) CacheConfig() cache.Config {
	cfg := cache.Config{
		Enabled:        f.Cache.Enabled,
		MaxEntries:     f.Cache.MaxEntries,
		DefaultTTL:     f.Cache.DefaultTTL,
		MaxSizeBytes:   f.Cache.MaxSizeBytes,
		CacheDir:       f.Cache.CacheDir,
		UseGlobalCache: f.Cache.UseGlobalCache,
	}
	if len(f.Cache.TTLBySource) > 0 {
		cfg.TTLBySource = make(map[cache.Source]time.Duration, len(f.Cache.TTLBySource))
		for src, ttl := range f.Cache.TTLBySource {
			cfg.TTLBySource[cache.ParseSource(src)] = ttl
		}
	}
	return cfg
}
