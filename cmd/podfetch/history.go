// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/shelftools/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently downloaded episodes",
	Long: `History lists downloads recorded in <download-dir>/.podfetch/history.db,
newest first. The playlist decides what is downloaded; history only keeps
details about each download. Use --yaml to export the records.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of episodes (0 or less for all)")
	historyCmd.Flags().String("feed", "", "only show episodes from this feed URL")
	historyCmd.Flags().Bool("yaml", false, "write the records as YAML")
	historyCmd.Flags().String("db", "", "history database (default <download-dir>/.podfetch/history.db)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	feedURL, _ := cmd.Flags().GetString("feed")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	dbPath, _ := cmd.Flags().GetString("db")

	if dbPath == "" {
		dbPath = history.DefaultPath(expandHome(viper.GetString("download-dir")))
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no download history at %s: %w", dbPath, err)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if limit <= 0 {
		limit = -1
	}
	opts := history.QueryOptions{FeedURL: feedURL, Limit: limit}

	if asYAML {
		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout(), opts)
	}

	episodes, err := store.Recent(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No downloads recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSIZE\tFILE\tFEED")
	for _, ep := range episodes {
		feed := ep.FeedTitle
		if feed == "" {
			feed = ep.FeedURL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			humanize.Time(ep.DownloadedAt), humanize.IBytes(uint64(ep.Size)), ep.Filename, feed)
	}
	return tw.Flush()
}
