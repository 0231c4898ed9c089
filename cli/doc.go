// Package cli wires together the Cobra command tree for the cachectl binary.
//
// It defines the root command and all subcommands (get, set, delete, query,
// stats, evict, clear, version), binds flags, loads configuration, opens the
// tiered store, and returns deterministic exit codes suitable for scripting.
package cli
