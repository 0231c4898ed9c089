// Package health provides health checking primitives for cache stores.
//
// A StoreChecker watches a store's utilization and its directory's
// writability: a cache near its configured bounds is degraded, a cache whose
// directory cannot be written is unhealthy (the engine fails open in that
// state, so every operation silently misses).
package health
