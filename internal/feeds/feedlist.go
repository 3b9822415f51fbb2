// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeds

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadFeedList reads feed URLs from path, one per line, in file order.
// Blank lines and lines starting with '#' are ignored.
func ReadFeedList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feed list: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading feed list %s: %w", path, err)
	}
	return urls, nil
}
