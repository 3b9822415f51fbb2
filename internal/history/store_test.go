// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/shelftools/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DefaultPath(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	eps := []types.Episode{
		{Filename: "a1.mp3", SourceURL: "http://a/a1.mp3", FeedURL: "http://a/feed", FeedTitle: "Show A", Title: "A one", Size: 10, DownloadedAt: base},
		{Filename: "b1.mp3", SourceURL: "http://b/b1.mp3", FeedURL: "http://b/feed", Title: "B one", Size: 20, DownloadedAt: base.Add(time.Hour)},
		{Filename: "a2.mp3", SourceURL: "http://a/a2.mp3", FeedURL: "http://a/feed", FeedTitle: "Show A", Title: "A two", Size: 30, DownloadedAt: base.Add(2 * time.Hour)},
	}
	for _, ep := range eps {
		require.NoError(t, s.Add(context.Background(), ep))
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "dir", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestRecentNewestFirst(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Recent(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a2.mp3", got[0].Filename)
	assert.Equal(t, "b1.mp3", got[1].Filename)
	assert.Equal(t, "a1.mp3", got[2].Filename)
	assert.Equal(t, "Show A", got[0].FeedTitle)
	assert.Equal(t, int64(30), got[0].Size)
	assert.True(t, got[0].DownloadedAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestRecentFilters(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Recent(context.Background(), QueryOptions{FeedURL: "http://a/feed"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, ep := range got {
		assert.Equal(t, "http://a/feed", ep.FeedURL)
	}

	got, err = s.Recent(context.Background(), QueryOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a2.mp3", got[0].Filename)
}

func TestAddDefaultsTimestamp(t *testing.T) {
	s := testStore(t)
	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Add(context.Background(), types.Episode{Filename: "x.mp3", SourceURL: "u", FeedURL: "f"}))

	got, err := s.Recent(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].DownloadedAt.After(before))
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf, QueryOptions{}))

	var got []types.Episode
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "a2.mp3", got[0].Filename)
	assert.Contains(t, buf.String(), "source_url: http://a/a2.mp3")
}

func TestExportYAMLEmpty(t *testing.T) {
	s := testStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf, QueryOptions{}))
	assert.Equal(t, "[]\n", buf.String())
}
