// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps the playlist log: a plain-text list of downloaded
// filenames, most recent first. The log doubles as an M3U playlist and as the
// record of what has already been fetched.
//
// A Ledger assumes a single writer. Callers hold Lock for the duration of a
// run; concurrent runs against one log are otherwise unsafe.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrLocked is returned by Lock when another run holds the log.
var ErrLocked = errors.New("playlist is locked by another run")

// MatchMode selects how Contains compares a candidate against the log.
type MatchMode int

const (
	// SubstringMatch treats a candidate as present when it occurs anywhere in
	// the log contents. A name that is contained in, or spans, a logged name
	// counts as downloaded. Existing logs were built with this rule.
	SubstringMatch MatchMode = iota

	// ExactMatch requires a whole log line equal to the candidate.
	ExactMatch
)

// beforeRename runs between writing the temp file and replacing the log.
// Tests use it to interrupt a write.
var beforeRename = func() {}

// chmod is swapped out in tests.
var chmod = os.Chmod

// Ledger is an in-memory view of the playlist log backed by its file.
type Ledger struct {
	path    string
	mode    MatchMode
	content string
}

// Open reads the log at path. A missing file is an empty log.
func Open(path string, mode MatchMode) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading playlist %s: %w", path, err)
	}
	return &Ledger{path: path, mode: mode, content: string(data)}, nil
}

// Path returns the log file path.
func (l *Ledger) Path() string { return l.path }

// Contains reports whether candidate is already recorded. The empty string
// is never recorded.
func (l *Ledger) Contains(candidate string) bool {
	if candidate == "" {
		return false
	}
	if l.mode == ExactMatch {
		for _, e := range l.Entries() {
			if e == candidate {
				return true
			}
		}
		return false
	}
	return strings.Contains(l.content, candidate)
}

// Entries returns the logged filenames, most recent first.
func (l *Ledger) Entries() []string {
	trimmed := strings.TrimRight(l.content, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// Record puts filename at the top of the log, followed by every previous
// entry in order. The new log is written to a temp file in the same
// directory and renamed over the old one, so the log is either fully old or
// fully new. If ctx is cancelled before the rename, the log is untouched and
// the temp file is removed.
func (l *Ledger) Record(ctx context.Context, filename string) (err error) {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating playlist directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(l.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp playlist: %w", err)
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				tmp.Close()
			}
			os.Remove(tmpPath)
		}
	}()

	next := filename + "\n" + l.content
	if _, err := tmp.WriteString(next); err != nil {
		return fmt.Errorf("writing temp playlist: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp playlist: %w", err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp playlist: %w", err)
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(l.path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("setting playlist mode: %w", err)
	}

	beforeRename()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("recording %s: %w", filename, err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("replacing playlist: %w", err)
	}
	l.content = next
	return nil
}

// Lock takes the single-writer lock for the log at path by creating
// path+".lock" exclusively. The returned function releases it. A lock left
// by a killed run must be removed by hand.
func Lock(path string) (unlock func() error, err error) {
	lockPath := path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating playlist directory: %w", err)
	}
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: remove %s if no other run is active", ErrLocked, lockPath)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() error {
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing lock file: %w", err)
		}
		return nil
	}, nil
}
