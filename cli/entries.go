package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolcache/cache"
	"github.com/jonwraymond/toolcache/tiered"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch a cache entry by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		r := store.Get(cmd.Context(), args[0])
		if !r.Hit {
			fmt.Fprintln(os.Stderr, "miss")
			exitCode = ExitMiss
			return nil
		}
		return printJSON(r)
	},
}

var (
	setSource string
	setTTL    time.Duration
	setTags   []string
	setScope  string
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value under a key",
	Long: "Set stores a value under a key. The value argument is used verbatim when\n" +
		"it is valid JSON, and stored as a JSON string otherwise.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, err := parseScopes(setScope)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}

		var value any = json.RawMessage(args[1])
		if !json.Valid([]byte(args[1])) {
			value = args[1]
		}

		opts := tiered.SetOptions{
			SetOptions: cache.SetOptions{
				TTL:  setTTL,
				Tags: setTags,
			},
		}
		if setSource != "" {
			opts.Source = cache.ParseSource(setSource)
		}
		if len(scopes) > 0 {
			opts.Scope = scopes[0]
		}

		if !store.Set(cmd.Context(), args[0], value, opts) {
			fmt.Fprintln(os.Stderr, "dropped (tier disabled, unbound, or write failed)")
			exitCode = ExitMiss
			return nil
		}
		fmt.Fprintln(os.Stdout, "stored")
		return nil
	},
}

var deleteScope string

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a cache entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, err := parseScopes(deleteScope)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		if !store.Delete(cmd.Context(), args[0], scopes...) {
			fmt.Fprintln(os.Stderr, "not found")
			exitCode = ExitMiss
			return nil
		}
		fmt.Fprintln(os.Stdout, "deleted")
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&setSource, "source", "", "entry source (search, visit, embedding, analysis, other)")
	setCmd.Flags().DurationVar(&setTTL, "ttl", 0, "explicit TTL override (0 uses the source default)")
	setCmd.Flags().StringSliceVar(&setTags, "tags", nil, "tags to attach to the entry")
	setCmd.Flags().StringVar(&setScope, "scope", "", "target tier (global or project; default preferred)")
	deleteCmd.Flags().StringVar(&deleteScope, "scope", "", "tier to delete from (default both)")
}
