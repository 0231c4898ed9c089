// Cachectl manages the on-disk tool-result cache from the command line.
//
// It reads and writes entries in the global and project tiers, queries by
// source and tags, sweeps expired records, and reports per-tier statistics.
//
// Usage:
//
//	cachectl get <key>                     # fetch an entry
//	cachectl set <key> <value> --source search
//	cachectl query --source visit --tags docs
//	cachectl stats                         # per-tier counters
//	cachectl evict                         # sweep expired entries
//	cachectl clear --scope project         # wipe one tier
package main
