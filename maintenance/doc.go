// Package maintenance drives the periodic upkeep the cache engine exposes
// but never schedules on its own: expired-entry sweeps and statistics
// persistence.
//
// The Janitor is the injectable scheduler the engine's design calls for. The
// caller constructs it, registers stores (registration is dynamic, so a
// project store bound mid-run is picked up on the next tick), starts it, and
// stops it. A caller that never starts a janitor simply accumulates expired
// entries until a Get on the exact key lazily removes them.
package maintenance
