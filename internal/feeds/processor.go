// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feeds runs the podcast feed processor: it reads a list of feeds,
// takes the newest enclosures from each, and downloads the ones the playlist
// does not mention yet.
package feeds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/shelftools/internal/download"
	"github.com/pdiddy/shelftools/internal/ledger"
	"github.com/pdiddy/shelftools/internal/output"
	"github.com/pdiddy/shelftools/pkg/types"
)

// EnclosureSource lists the enclosures of a feed. *Parser implements it.
type EnclosureSource interface {
	Enclosures(ctx context.Context, feedURL string, max int) ([]types.Enclosure, error)
}

// Recorder stores metadata about completed downloads. *history.Store
// implements it.
type Recorder interface {
	Add(ctx context.Context, ep types.Episode) error
}

// Result holds the outcome of a processor run.
type Result struct {
	Downloaded int
	Skipped    int
	// Pending counts items a dry run would have downloaded.
	Pending  int
	Episodes []types.Episode
}

// Total returns the number of enclosures looked at.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped + r.Pending
}

// Processor downloads new enclosures and records them in the playlist.
type Processor struct {
	Source     EnclosureSource
	Downloader download.Downloader
	Ledger     *ledger.Ledger
	// History is optional. Failures to write it are warnings.
	History     Recorder
	Printer     *output.Printer
	DownloadDir string
	MaxPerFeed  int
	DryRun      bool
}

// Run processes feedURLs in order. The first failure, whether fetching a
// feed, downloading an enclosure, or writing the playlist, stops the whole
// run; everything recorded before it stays recorded.
func (p *Processor) Run(ctx context.Context, feedURLs []string) (result Result, err error) {
	defer func() {
		if p.DryRun {
			p.Printer.Summary("Run summary: %d to download, %d skipped (dry run)", result.Pending, result.Skipped)
			return
		}
		p.Printer.Summary("Run summary: %d downloaded, %d skipped", result.Downloaded, result.Skipped)
	}()

	if !p.DryRun {
		if err := os.MkdirAll(p.DownloadDir, 0o755); err != nil {
			return result, fmt.Errorf("creating download directory: %w", err)
		}
	}

	for _, feedURL := range feedURLs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		encs, err := p.Source.Enclosures(ctx, feedURL, p.MaxPerFeed)
		if err != nil {
			p.Printer.Failure("%s (%v)", feedURL, err)
			return result, fmt.Errorf("feed %s: %w", feedURL, err)
		}

		for _, enc := range encs {
			if err := p.processEnclosure(ctx, enc, &result); err != nil {
				return result, fmt.Errorf("feed %s: %w", feedURL, err)
			}
		}
	}
	return result, nil
}

func (p *Processor) processEnclosure(ctx context.Context, enc types.Enclosure, result *Result) error {
	name := download.Filename(enc.URL)
	if !usableName(name) {
		p.Printer.Warning("no usable filename in %s, skipping", enc.URL)
		result.Skipped++
		return nil
	}

	if p.Ledger.Contains(name) {
		p.Printer.Status("skipped", "%s", name)
		result.Skipped++
		return nil
	}

	if p.DryRun {
		p.Printer.Status("would download", "%s (%s)", name, enc.URL)
		result.Pending++
		return nil
	}

	p.Printer.Status("downloading", "%s", name)
	size, err := p.Downloader.Download(ctx, enc.URL, filepath.Join(p.DownloadDir, name))
	if err != nil {
		p.Printer.Failure("%s (%v)", name, err)
		return fmt.Errorf("downloading %s: %w", name, err)
	}

	if err := p.Ledger.Record(ctx, name); err != nil {
		p.Printer.Failure("%s (%v)", name, err)
		return fmt.Errorf("recording %s: %w", name, err)
	}

	ep := types.Episode{
		Filename:     name,
		SourceURL:    enc.URL,
		FeedURL:      enc.FeedURL,
		FeedTitle:    enc.FeedTitle,
		Title:        enc.ItemTitle,
		Size:         size,
		DownloadedAt: time.Now(),
	}
	if p.History != nil {
		if err := p.History.Add(ctx, ep); err != nil {
			p.Printer.Warning("history not updated for %s: %v", name, err)
		}
	}

	p.Printer.Status("downloaded", "%s", name)
	result.Downloaded++
	result.Episodes = append(result.Episodes, ep)
	return nil
}

// usableName reports whether name can be stored in the download directory.
// "." and ".." would resolve to the directory itself or its parent.
func usableName(name string) bool {
	return name != "" && name != "." && name != ".."
}
