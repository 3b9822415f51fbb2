// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite record of every completed download. The
// playlist log stays the authority on what has been fetched; history adds the
// metadata the log cannot hold (feed, title, size, time).
package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/shelftools/pkg/types"
)

const (
	// Dir is the directory under the download dir that holds the database.
	Dir    = ".podfetch"
	dbFile = "history.db"

	defaultLimit = 20

	// timeLayout has fixed-width fractions so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// DefaultPath returns the database path for downloadDir.
func DefaultPath(downloadDir string) string {
	return filepath.Join(downloadDir, Dir, dbFile)
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			source_url TEXT NOT NULL,
			feed_url TEXT NOT NULL,
			feed_title TEXT,
			title TEXT,
			size INTEGER NOT NULL DEFAULT 0,
			downloaded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_feed_url ON episodes(feed_url)`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_downloaded_at ON episodes(downloaded_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add records one download.
func (s *Store) Add(ctx context.Context, ep types.Episode) error {
	if ep.DownloadedAt.IsZero() {
		ep.DownloadedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (filename, source_url, feed_url, feed_title, title, size, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ep.Filename, ep.SourceURL, ep.FeedURL, ep.FeedTitle, ep.Title, ep.Size,
		ep.DownloadedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting episode %s: %w", ep.Filename, err)
	}
	return nil
}

// QueryOptions filters Recent.
type QueryOptions struct {
	// FeedURL restricts results to one feed when set.
	FeedURL string
	// Limit caps the number of rows (default 20, negative for no limit).
	Limit int
}

// Recent returns downloads newest first.
func (s *Store) Recent(ctx context.Context, opts QueryOptions) ([]types.Episode, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	query := `SELECT filename, source_url, feed_url, feed_title, title, size, downloaded_at FROM episodes`
	var args []any
	if opts.FeedURL != "" {
		query += ` WHERE feed_url = ?`
		args = append(args, opts.FeedURL)
	}
	query += ` ORDER BY downloaded_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying episodes: %w", err)
	}
	defer rows.Close()

	var episodes []types.Episode
	for rows.Next() {
		var ep types.Episode
		var feedTitle, title sql.NullString
		var at string
		if err := rows.Scan(&ep.Filename, &ep.SourceURL, &ep.FeedURL, &feedTitle, &title, &ep.Size, &at); err != nil {
			return nil, fmt.Errorf("scanning episode: %w", err)
		}
		ep.FeedTitle = feedTitle.String
		ep.Title = title.String
		if t, err := time.Parse(timeLayout, at); err == nil {
			ep.DownloadedAt = t
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// ExportYAML writes every download matching opts to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	episodes, err := s.Recent(ctx, opts)
	if err != nil {
		return err
	}
	if episodes == nil {
		episodes = []types.Episode{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(episodes); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
