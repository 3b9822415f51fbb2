// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads host files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "feeds.example.com", "  alice:s3cret  \n")
				writeFile(t, dir, "cdn.example.org", "bob:hunter2")
				return dir
			},
			want: map[string]string{
				"feeds.example.com": "alice:s3cret",
				"cdn.example.org":   "bob:hunter2",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "feeds.example.com", "alice:pw")
				writeFile(t, dir, "empty.example.com", "")
				writeFile(t, dir, "blank.example.com", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"feeds.example.com": "alice:pw",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, "feeds.example.com", "alice:pw")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"feeds.example.com": "alice:pw",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Feeds.Example.com", "alice:pa:ss")
	writeFile(t, dir, "token-only.example.com", "abcdef")

	creds, err := LoadCredentials(dir)
	require.NoError(t, err)

	user, pass, ok := creds.BasicAuth("feeds.example.COM")
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pa:ss", pass)

	_, _, ok = creds.BasicAuth("token-only.example.com")
	assert.False(t, ok, "values without a colon are ignored")

	_, _, ok = creds.BasicAuth("unknown.example.com")
	assert.False(t, ok)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
