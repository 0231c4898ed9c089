// Package cache defines the shared model for disk-persisted caching of
// expensive tool results: entry metadata, per-source statistics, cache
// configuration, deterministic key derivation, and the Store contract that
// every cache engine implements.
//
// The package contains no I/O. Engines (see the filecache package) and the
// two-tier resolver (see the tiered package) implement Store; consumers wrap
// tool executors with Middleware to get transparent caching.
//
// Store operations never return errors on the hot path: a failed read, a
// corrupt record, or a failed write degrades to "entry absent" so the cache
// can never break the workflow it accelerates.
package cache
