package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonardcser/redis-basic/internal/ttlcache"
	web "github.com/leonardcser/redis-basic/internal/web"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Print the body of each URL, caching repeated URLs",
		Long: `Fetch each URL in turn and print its body. A URL repeated within the
cache TTL is served from the in-memory cache.

Examples:
  redis-basic fetch https://example.com
  redis-basic fetch --markdown https://example.com https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ttlcache.New[string](rootOpts.cfg.CacheOptions())
			if err != nil {
				return err
			}
			f := web.NewFetcher(cache, web.NewCollyGetter(rootOpts.cfg.FetchTimeout))
			for _, u := range args {
				body, err := f.GetPage(cmd.Context(), u)
				if err != nil {
					return err
				}
				if markdown {
					if body, err = web.ToMarkdown(body); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), body)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "convert HTML bodies to Markdown")
	return cmd
}
