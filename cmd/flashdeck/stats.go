package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/phrazzld/flashdeck/internal/cardstore"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, app *application) error {
				if err := app.cards.Wait(ctx); err != nil {
					return err
				}

				stats := app.cards.Stats()
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				return writeStats(cmd.OutOrStdout(), stats)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the statistics as JSON")

	return cmd
}

func writeStats(out io.Writer, stats cardstore.Stats) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "cards\t%d\n", stats.TotalCards)
	fmt.Fprintf(tw, "unfiled\t%d\n", stats.UnfiledCards)
	fmt.Fprintf(tw, "folders\t%d\n", stats.TotalFolders)
	fmt.Fprintf(tw, "studied today\t%d\n", stats.StudiedToday)
	fmt.Fprintf(tw, "answers\t%d\n", stats.TotalAnswers)
	fmt.Fprintf(tw, "accuracy\t%d%%\n", stats.AverageAccuracy)
	fmt.Fprintf(tw, "sessions\t%d\n", stats.TotalSessions)

	categories := make([]string, 0, len(stats.ByCategory))
	for name := range stats.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		fmt.Fprintf(tw, "category %s\t%d\n", name, stats.ByCategory[name])
	}

	return tw.Flush()
}
