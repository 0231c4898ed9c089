// Package observe provides observability primitives for cache operations.
//
// It is a pure instrumentation library: the cache engine itself never logs or
// records metrics. Consumers wrap a store with InstrumentStore to get spans,
// counters, and structured logs around every operation, and wire the Observer
// into their server or CLI.
package observe
