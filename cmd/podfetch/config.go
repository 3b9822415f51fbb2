// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/shelftools/pkg/types"
)

const (
	defaultTimeout    = 10 * time.Minute
	defaultUserAgent  = "podfetch/0.1"
	defaultMaxPerFeed = 1
	defaultSecretsDir = ".secrets/"
	playlistName      = "playlist.m3u"
)

var envKeyReplacer = strings.NewReplacer("-", "_")

// defaultConfigFile returns ./podfetch.yaml when present, otherwise
// ~/.config/podfetch/config.yaml. Neither has to exist.
func defaultConfigFile() string {
	if _, err := os.Stat("podfetch.yaml"); err == nil {
		return "podfetch.yaml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "podfetch.yaml"
	}
	return filepath.Join(home, ".config", "podfetch", "config.yaml")
}

func init() {
	viper.SetDefault("feeds-file", filepath.Join("~", "podcasts", "feeds.txt"))
	viper.SetDefault("download-dir", filepath.Join("~", "podcasts"))
	viper.SetDefault("max-per-feed", defaultMaxPerFeed)
	viper.SetDefault("downloader", string(types.DownloaderHTTP))
	viper.SetDefault("timeout", defaultTimeout)
	viper.SetDefault("user-agent", defaultUserAgent)
	viper.SetDefault("secrets-dir", defaultSecretsDir)
}

// fetchConfig resolves the feed processor settings from flags, config file,
// environment and defaults, in that order of precedence.
func fetchConfig(v *viper.Viper) (types.FetchConfig, error) {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   v.GetDuration("timeout"),
			UserAgent: v.GetString("user-agent"),
		},
		FeedsFile:   expandHome(v.GetString("feeds-file")),
		DownloadDir: expandHome(v.GetString("download-dir")),
		Playlist:    expandHome(v.GetString("playlist")),
		MaxPerFeed:  v.GetInt("max-per-feed"),
		Downloader:  types.DownloaderBackend(v.GetString("downloader")),
		ExactMatch:  v.GetBool("exact-match"),
		DryRun:      v.GetBool("dry-run"),
		SecretsDir:  expandHome(v.GetString("secrets-dir")),
	}

	if cfg.Playlist == "" {
		cfg.Playlist = filepath.Join(cfg.DownloadDir, playlistName)
	}
	if cfg.MaxPerFeed < 1 {
		return cfg, fmt.Errorf("max-per-feed must be at least 1, got %d", cfg.MaxPerFeed)
	}
	switch cfg.Downloader {
	case types.DownloaderHTTP, types.DownloaderWget, types.DownloaderCurl:
	default:
		return cfg, fmt.Errorf("unknown downloader %q: must be http, wget, or curl", cfg.Downloader)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg, nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
