package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolcache/config"
	"github.com/jonwraymond/toolcache/tiered"
)

const version = "0.1.0"

// Exit codes. A miss on get is distinguishable from a runtime failure so the
// binary can back a shell conditional.
const (
	ExitSuccess    = 0
	ExitMiss       = 1
	ExitUsageError = 2
)

var (
	flagConfig        string
	flagBaseDir       string
	flagProjectDir    string
	flagPreferProject bool
)

var rootCmd = &cobra.Command{
	Use:   "cachectl",
	Short: "Inspect and manage toolcache stores",
	Long: "Cachectl operates on the on-disk tool-result cache: reading and writing\n" +
		"entries, querying by source and tags, evicting expired records, and\n" +
		"reporting per-tier statistics.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "dir", "", "base directory holding the global cache")
	rootCmd.PersistentFlags().StringVar(&flagProjectDir, "project", "", "project cache directory to bind")
	rootCmd.PersistentFlags().BoolVar(&flagPreferProject, "prefer-project", false, "resolve against the project tier first")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(evictCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cachectl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "cachectl version %s\n", version)
	},
}

// openStore loads configuration and opens the tiered store, applying the
// directory flags on top of the file's values.
func openStore() (*tiered.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	baseDir := cfg.Tiered.BaseDir
	if flagBaseDir != "" {
		baseDir = flagBaseDir
	}
	projectDir := cfg.Tiered.ProjectDir
	if flagProjectDir != "" {
		projectDir = flagProjectDir
	}

	store := tiered.New(tiered.Options{
		BaseDir:       baseDir,
		Config:        cfg.CacheConfig(),
		PreferProject: cfg.Tiered.PreferProject || flagPreferProject,
	})
	if projectDir != "" {
		store.SetProjectStore(projectDir)
	}
	return store, nil
}

// parseScopes converts a --scope flag value into tier selectors. Empty means
// "no explicit scope" and is returned as a nil slice.
func parseScopes(s string) ([]tiered.Scope, error) {
	switch s {
	case "":
		return nil, nil
	case string(tiered.ScopeGlobal):
		return []tiered.Scope{tiered.ScopeGlobal}, nil
	case string(tiered.ScopeProject):
		return []tiered.Scope{tiered.ScopeProject}, nil
	default:
		return nil, fmt.Errorf("unknown scope %q (want %q or %q)", s, tiered.ScopeGlobal, tiered.ScopeProject)
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
