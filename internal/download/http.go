// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/pdiddy/shelftools/internal/httputil"
)

// partSuffix marks an incomplete download next to its destination.
const partSuffix = ".part"

// HTTPDownloader downloads in process. Bytes go to destPath+".part" first;
// an existing part file is resumed with a Range request.
type HTTPDownloader struct {
	Client   *httputil.Client
	Progress io.Writer
}

// Download fetches url into destPath.
func (d *HTTPDownloader) Download(ctx context.Context, url, destPath string) (int64, error) {
	partPath := destPath + partSuffix

	var offset int64
	if info, err := os.Stat(partPath); err == nil {
		offset = info.Size()
	}

	header := http.Header{}
	if offset > 0 {
		header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := d.Client.Get(ctx, url, header)
	if err != nil {
		return 0, err
	}

	// The part file already holds everything the server has.
	if offset > 0 && resp.StatusCode == http.StatusRequestedRangeNotSatisfiable {
		resp.Body.Close()
		return finish(partPath, destPath)
	}
	if err := httputil.CheckStatus(resp, http.StatusOK, http.StatusPartialContent); err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	if resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		offset = 0
	}

	f, err := os.OpenFile(partPath, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening part file: %w", err)
	}

	var total int64
	if resp.ContentLength > 0 {
		total = offset + resp.ContentLength
	}
	pw := &progressWriter{w: d.Progress, done: offset, total: total}

	_, copyErr := io.Copy(io.MultiWriter(f, pw), resp.Body)
	pw.finish()
	syncErr := f.Sync()
	closeErr := f.Close()
	if copyErr != nil {
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if syncErr != nil {
		return 0, fmt.Errorf("syncing part file: %w", syncErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("closing part file: %w", closeErr)
	}

	return finish(partPath, destPath)
}

func finish(partPath, destPath string) (int64, error) {
	if err := os.Rename(partPath, destPath); err != nil {
		return 0, fmt.Errorf("renaming part file: %w", err)
	}
	info, err := os.Stat(destPath)
	if err != nil {
		return 0, fmt.Errorf("checking download: %w", err)
	}
	return info.Size(), nil
}

// progressStep is how many bytes pass between progress updates.
const progressStep = 1 << 20

// progressWriter counts bytes and redraws a single progress line.
type progressWriter struct {
	w     io.Writer
	done  int64
	total int64
	last  int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if p.w != nil && p.done-p.last >= progressStep {
		p.last = p.done
		p.draw()
	}
	return len(b), nil
}

func (p *progressWriter) draw() {
	if p.total > 0 {
		fmt.Fprintf(p.w, "\r  %s / %s", humanize.IBytes(uint64(p.done)), humanize.IBytes(uint64(p.total)))
		return
	}
	fmt.Fprintf(p.w, "\r  %s", humanize.IBytes(uint64(p.done)))
}

func (p *progressWriter) finish() {
	if p.w == nil || p.last == 0 {
		return
	}
	p.draw()
	fmt.Fprintln(p.w)
}
