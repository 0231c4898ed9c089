package cache

import "context"

// Store is the contract every cache engine implements.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: operations never fail loudly; a read error is a miss, a write
//     error drops the value. Error signaling is reserved for construction-time
//     configuration problems.
//   - Context: operations run to completion once started; the engine imposes
//     no timeouts of its own. Timeouts, if any, belong to the caller.
type Store interface {
	// Get retrieves an entry. Misses (absent, corrupt, or expired records)
	// are counted; expired entries are deleted eagerly on the way out.
	Get(ctx context.Context, key string) Result

	// Set stores a value, evicting ahead of the write if the insert would
	// exceed the configured bounds. Reports whether the value was persisted.
	Set(ctx context.Context, key string, value any, opts SetOptions) bool

	// Delete removes an entry's value and metadata. Reports whether a
	// metadata record existed.
	Delete(ctx context.Context, key string) bool

	// Has reports existence via Get, so it updates access statistics as a
	// side effect. Callers needing a non-destructive probe should use Query.
	Has(ctx context.Context, key string) bool

	// Clear removes every entry and resets statistics to a fresh baseline,
	// including historical hit/miss counters.
	Clear(ctx context.Context)

	// Query scans entry metadata, filtering by source, tags (AND semantics),
	// and expiry, without mutating access statistics.
	Query(ctx context.Context, q Query) []Entry

	// EvictExpired removes every entry past its ExpiresAt and returns the
	// number removed.
	EvictExpired(ctx context.Context) int

	// EvictLRU removes expired entries first, then least-recently-accessed
	// entries until targetBytes fit within the configured bounds. Returns the
	// total number of entries removed.
	EvictLRU(ctx context.Context, targetBytes int64) int

	// Stats returns a snapshot of the store's counters.
	Stats() Stats
}
