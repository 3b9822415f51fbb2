// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeds

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/shelftools/internal/httputil"
	"github.com/pdiddy/shelftools/pkg/types"
)

// Parser fetches feeds and pulls out their enclosures. RSS and Atom are both
// accepted.
type Parser struct {
	client *httputil.Client
	fp     *gofeed.Parser
}

// NewParser returns a Parser that fetches through client.
func NewParser(client *httputil.Client) *Parser {
	return &Parser{client: client, fp: gofeed.NewParser()}
}

// Enclosures fetches feedURL and returns up to max enclosures in document
// order. max <= 0 returns all of them.
func (p *Parser) Enclosures(ctx context.Context, feedURL string, max int) ([]types.Enclosure, error) {
	resp, err := p.client.Get(ctx, feedURL, http.Header{
		"Accept": {"application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"},
	})
	if err != nil {
		return nil, err
	}
	if err := httputil.CheckStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := p.fp.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return collectEnclosures(feed, feedURL, max), nil
}

// collectEnclosures walks items in order, and enclosures within each item in
// order, stopping after max.
func collectEnclosures(feed *gofeed.Feed, feedURL string, max int) []types.Enclosure {
	var out []types.Enclosure
	for _, item := range feed.Items {
		for _, enc := range item.Enclosures {
			if enc == nil || enc.URL == "" {
				continue
			}
			if max > 0 && len(out) >= max {
				return out
			}
			out = append(out, types.Enclosure{
				URL:       enc.URL,
				Type:      enc.Type,
				Length:    enc.Length,
				ItemTitle: item.Title,
				FeedURL:   feedURL,
				FeedTitle: feed.Title,
			})
		}
	}
	return out
}
