package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolcache/cache"
)

var (
	querySource         string
	queryTags           []string
	queryIncludeExpired bool
	queryLimit          int
	queryScope          string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List cache entries matching source and tag filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, err := parseScopes(queryScope)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}

		q := cache.Query{
			Tags:           queryTags,
			IncludeExpired: queryIncludeExpired,
			Limit:          queryLimit,
		}
		if querySource != "" {
			q.Source = cache.ParseSource(querySource)
		}

		entries := store.Query(cmd.Context(), q, scopes...)
		return printJSON(entries)
	},
}

var statsScope string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-tier cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, err := parseScopes(statsScope)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		return printJSON(store.Stats(scopes...))
	},
}

func init() {
	queryCmd.Flags().StringVar(&querySource, "source", "", "restrict to a source")
	queryCmd.Flags().StringSliceVar(&queryTags, "tags", nil, "require every listed tag")
	queryCmd.Flags().BoolVar(&queryIncludeExpired, "include-expired", false, "include entries past their TTL")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum entries to return (0 uses the default)")
	queryCmd.Flags().StringVar(&queryScope, "scope", "", "tier to query (default all configured)")
	statsCmd.Flags().StringVar(&statsScope, "scope", "", "tier to report (default all, with combined totals)")
}
