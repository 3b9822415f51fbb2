// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf assembles page images into a single PDF. Every page is fitted
// to a fixed paper size. Landscape images get the sheet turned 90 degrees,
// so they stay upright on a landscape page of the same size.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/shelftools/internal/toolexec"
	"github.com/pdiddy/shelftools/pkg/types"
)

// DefaultPageSize is the paper format used when none is configured.
const DefaultPageSize = "A4"

// ErrNoPages is returned when there is nothing to assemble.
var ErrNoPages = errors.New("no pages to assemble")

// Assembler turns an ordered list of page images into a PDF at outPath,
// replacing any existing file.
type Assembler interface {
	Assemble(ctx context.Context, pages []string, outPath string) error
}

// New returns the assembler for backend.
func New(backend types.AssemblerBackend, pageSize string) (Assembler, error) {
	if pageSize == "" {
		pageSize = DefaultPageSize
	}
	switch backend {
	case "", types.AssemblerPdfcpu:
		return NewPdfcpuAssembler(pageSize), nil
	case types.AssemblerImg2pdf:
		return NewImg2pdfAssembler(toolexec.New("img2pdf"), pageSize), nil
	default:
		return nil, fmt.Errorf("unknown assembler %q: must be pdfcpu or img2pdf", backend)
	}
}

// imageExts lists the page formats both assemblers accept.
var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// IsImage reports whether path has a page image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// IsLandscape reports whether the image at path is wider than it is tall.
// Only the image header is read.
func IsLandscape(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return false, fmt.Errorf("reading image header of %s: %w", path, err)
	}
	return cfg.Width > cfg.Height, nil
}

// pageRun is a stretch of consecutive pages sharing one orientation.
type pageRun struct {
	pages     []string
	landscape bool
}

// splitRuns groups pages, in order, into runs of equal orientation.
func splitRuns(pages []string) ([]pageRun, error) {
	var runs []pageRun
	for _, p := range pages {
		wide, err := IsLandscape(p)
		if err != nil {
			return nil, err
		}
		if n := len(runs); n > 0 && runs[n-1].landscape == wide {
			runs[n-1].pages = append(runs[n-1].pages, p)
			continue
		}
		runs = append(runs, pageRun{pages: []string{p}, landscape: wide})
	}
	return runs, nil
}

// Img2pdfAssembler drives the img2pdf tool, which handles orientation itself.
type Img2pdfAssembler struct {
	tool     toolexec.Tool
	pageSize string
}

// NewImg2pdfAssembler wraps t, which runs img2pdf.
func NewImg2pdfAssembler(t toolexec.Tool, pageSize string) *Img2pdfAssembler {
	return &Img2pdfAssembler{tool: t, pageSize: pageSize}
}

// Assemble runs img2pdf with the pages in order.
func (a *Img2pdfAssembler) Assemble(ctx context.Context, pages []string, outPath string) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	args := append([]string{"--auto-orient", "--pagesize", a.pageSize, "-o", outPath}, pages...)
	if _, err := a.tool.Run(ctx, args...); err != nil {
		return fmt.Errorf("assembling %s: %w", outPath, err)
	}
	return nil
}
