package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var evictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Sweep expired entries from every configured tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		counts := store.EvictExpired(cmd.Context())
		if err := store.SaveStats(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: persisting stats: %v\n", err)
		}
		return printJSON(counts)
	},
}

var clearScope string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from the selected tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, err := parseScopes(clearScope)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		store.Clear(cmd.Context(), scopes...)
		fmt.Fprintln(os.Stdout, "cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().StringVar(&clearScope, "scope", "", "tier to clear (default both)")
}
