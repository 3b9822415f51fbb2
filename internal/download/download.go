// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches enclosure files to disk, either over HTTP in
// process or by driving an external fetch tool.
package download

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/shelftools/internal/httputil"
	"github.com/pdiddy/shelftools/internal/toolexec"
	"github.com/pdiddy/shelftools/pkg/types"
)

// Downloader fetches url into destPath and returns the size of the file on disk.
// A partially written file may be left behind for a later resume, but
// destPath itself only appears once the download is complete.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) (int64, error)
}

// New returns the Downloader for backend. progress receives progress output;
// it may be io.Discard.
func New(backend types.DownloaderBackend, client *httputil.Client, progress io.Writer) (Downloader, error) {
	switch backend {
	case "", types.DownloaderHTTP:
		return &HTTPDownloader{Client: client, Progress: progress}, nil
	case types.DownloaderWget:
		return NewToolDownloader(toolexec.New("wget", toolexec.WithStderr(progress))), nil
	case types.DownloaderCurl:
		return NewToolDownloader(toolexec.New("curl", toolexec.WithStderr(progress))), nil
	default:
		return nil, fmt.Errorf("unknown downloader %q: must be http, wget, or curl", backend)
	}
}

// ToolDownloader drives wget or curl. Both write to destPath+".part" and
// resume it when a previous run left it behind.
type ToolDownloader struct {
	tool toolexec.Tool
}

// NewToolDownloader wraps t, which must be named "wget" or "curl".
func NewToolDownloader(t toolexec.Tool) *ToolDownloader {
	return &ToolDownloader{tool: t}
}

// Download runs the tool and reports any non-zero exit as failure.
func (d *ToolDownloader) Download(ctx context.Context, url, destPath string) (int64, error) {
	partPath := destPath + partSuffix
	var args []string
	switch d.tool.Name() {
	case "curl":
		args = []string{"--fail", "--location", "--continue-at", "-", "--output", partPath, url}
	default:
		args = []string{"--continue", "--output-document", partPath, url}
	}

	if _, err := d.tool.Run(ctx, args...); err != nil {
		return 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	return finish(partPath, destPath)
}
