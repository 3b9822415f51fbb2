// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/shelftools/internal/download"
	"github.com/pdiddy/shelftools/internal/feeds"
	"github.com/pdiddy/shelftools/internal/history"
	"github.com/pdiddy/shelftools/internal/httputil"
	"github.com/pdiddy/shelftools/internal/ledger"
	"github.com/pdiddy/shelftools/internal/secrets"
)

func init() {
	f := rootCmd.Flags()
	f.String("feeds-file", "", "feed list, one URL per line (default ~/podcasts/feeds.txt)")
	f.String("download-dir", "", "directory enclosures are saved to (default ~/podcasts)")
	f.String("playlist", "", "download log, newest first (default <download-dir>/playlist.m3u)")
	f.Int("max-per-feed", defaultMaxPerFeed, "newest enclosures to consider per feed")
	f.String("downloader", "", "download backend: http, wget, or curl (default http)")
	f.Bool("exact-match", false, "skip only filenames that match a playlist line exactly")
	f.Bool("dry-run", false, "list what would be downloaded without downloading")
	f.Duration("timeout", 0, "per-download timeout (default 10m)")
	f.String("user-agent", "", "User-Agent header for feed and enclosure requests")
	f.String("secrets-dir", "", "directory of per-host user:password files (default .secrets/)")

	f.VisitAll(func(fl *pflag.Flag) {
		_ = viper.BindPFlag(fl.Name, fl)
	})
}

func runFetch(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	cfg, err := fetchConfig(viper.GetViper())
	if err != nil {
		return err
	}
	feedURLs, err := feeds.ReadFeedList(cfg.FeedsFile)
	if err != nil {
		return err
	}
	slog.Debug("loaded feed list", "path", cfg.FeedsFile, "feeds", len(feedURLs))

	creds, err := secrets.LoadCredentials(cfg.SecretsDir)
	if err != nil {
		return err
	}
	client := httputil.NewClient(cfg.HTTPConfig, creds)

	dl, err := download.New(cfg.Downloader, client, printer.Out())
	if err != nil {
		return err
	}

	mode := ledger.SubstringMatch
	if cfg.ExactMatch {
		mode = ledger.ExactMatch
	}

	proc := &feeds.Processor{
		Source:      feeds.NewParser(client),
		Downloader:  dl,
		Printer:     printer,
		DownloadDir: cfg.DownloadDir,
		MaxPerFeed:  cfg.MaxPerFeed,
		DryRun:      cfg.DryRun,
	}

	if !cfg.DryRun {
		var unlock func() error
		unlock, err = ledger.Lock(cfg.Playlist)
		if err != nil {
			return err
		}
		defer func() {
			if uerr := unlock(); uerr != nil {
				err = errors.Join(err, uerr)
			}
		}()

		store, herr := history.Open(history.DefaultPath(cfg.DownloadDir))
		if herr != nil {
			printer.Warning("download history unavailable: %v", herr)
		} else {
			defer store.Close()
			proc.History = store
		}
	}

	// The playlist is read after the lock is held.
	proc.Ledger, err = ledger.Open(cfg.Playlist, mode)
	if err != nil {
		return err
	}

	if _, err := proc.Run(ctx, feedURLs); err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}
	return nil
}
