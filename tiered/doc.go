// Package tiered composes two file-backed cache stores under a
// scope-preference policy: an always-present global store rooted at a
// user-wide directory, and an optional project store bound to a working tree.
//
// Reads try the preferred tier first and fall through to the other tier on a
// miss, so a project-scoped miss never hides a usable global hit. Writes go
// to exactly one tier. Policy mutators (SetEnabled, SetPreferProjectCache)
// affect subsequent calls only; entries are never moved between tiers.
package tiered
