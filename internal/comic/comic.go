// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package comic converts a comic book archive into a PDF, one page per image.
package comic

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/shelftools/internal/extract"
	"github.com/pdiddy/shelftools/internal/output"
	"github.com/pdiddy/shelftools/internal/pdf"
)

// OutputPath returns input with its extension replaced by ".pdf". The PDF
// lands next to the archive.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

// ListPages returns every regular file below dir, sorted byte-wise by path.
func ListPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(pages)
	return pages, nil
}

// Converter runs extract, list and assemble for one archive at a time.
type Converter struct {
	Extractor extract.Extractor
	Assembler pdf.Assembler
	Printer   *output.Printer
	// TempDir is where scratch directories are created; empty means os.TempDir.
	TempDir string
}

// Convert turns archive into OutputPath(archive) and returns that path. The
// scratch directory is removed whether or not conversion succeeds.
func (c *Converter) Convert(ctx context.Context, archive string) (string, error) {
	if _, err := os.Stat(archive); err != nil {
		return "", err
	}
	out := OutputPath(archive)

	scratch, err := os.MkdirTemp(c.TempDir, "cbr2pdf-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			slog.Warn("removing scratch directory", "dir", scratch, "error", err)
		}
	}()
	slog.Debug("extracting", "archive", archive, "extractor", c.Extractor.Name(), "dir", scratch)

	if err := c.Extractor.Extract(ctx, archive, scratch); err != nil {
		return "", err
	}

	files, err := ListPages(scratch)
	if err != nil {
		return "", err
	}
	var pages []string
	for _, f := range files {
		if !pdf.IsImage(f) {
			c.printer().Status("skipped", "%s (not an image)", rel(scratch, f))
			continue
		}
		pages = append(pages, f)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%s: %w", archive, pdf.ErrNoPages)
	}

	if err := c.Assembler.Assemble(ctx, pages, out); err != nil {
		return "", err
	}
	c.printer().Status("converted", "%s (%d pages)", out, len(pages))
	return out, nil
}

func (c *Converter) printer() *output.Printer {
	if c.Printer == nil {
		return output.Plain(io.Discard)
	}
	return c.Printer
}

func rel(base, path string) string {
	if r, err := filepath.Rel(base, path); err == nil {
		return r
	}
	return path
}
