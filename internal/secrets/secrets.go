// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads feed credentials from a directory of plain-text files.
// Each file in the directory represents one host: the filename is the host name
// (e.g. "feeds.example.com") and the file contents (trimmed) are "user:password".
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Credentials maps a host name to its basic auth pair.
type Credentials map[string]string

// LoadCredentials loads dir with Load and keeps entries shaped "user:password".
func LoadCredentials(dir string) (Credentials, error) {
	raw, err := Load(dir)
	if err != nil {
		return nil, err
	}
	creds := make(Credentials, len(raw))
	for host, v := range raw {
		if !strings.Contains(v, ":") {
			slog.Warn("ignoring secret that is not user:password", "host", host)
			continue
		}
		creds[strings.ToLower(host)] = v
	}
	return creds, nil
}

// BasicAuth returns the credentials stored for host, if any.
func (c Credentials) BasicAuth(host string) (user, password string, ok bool) {
	v, found := c[strings.ToLower(host)]
	if !found {
		return "", "", false
	}
	user, password, _ = strings.Cut(v, ":")
	return user, password, true
}
