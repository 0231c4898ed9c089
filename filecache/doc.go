// Package filecache implements the disk-backed cache engine: content-addressed
// sharded JSON storage with TTL expiry, LRU eviction, per-source statistics,
// and queryable metadata.
//
// Layout under the configured cache directory:
//
//	data/<2-hex-shard>/<64-hex-hash>.json   serialized value
//	meta/<2-hex-shard>/<64-hex-hash>.json   entry metadata, pretty-printed
//	stats.json                              last-saved statistics snapshot
//
// A key is SHA-256 hashed; the first two hex characters pick one of 256 shard
// subdirectories to bound per-directory file counts, and the full hash names
// both files of the pair. Value and metadata are always two files sharing a
// derived name, never one combined record. Individual files are written via
// temp-file-then-rename, but the pair itself is not transactional: a
// concurrent reader can observe a fresh metadata file next to a stale value
// file. The cache is advisory, never the system of record, so this window
// degrades to a miss at worst.
//
// The store fails open. Directory creation errors at construction are
// swallowed, reads that fail for any reason are misses, and writes that fail
// simply do not persist.
package filecache
