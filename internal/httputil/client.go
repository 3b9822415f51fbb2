// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared by feed parsing and downloading.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/shelftools/internal/secrets"
	"github.com/pdiddy/shelftools/pkg/types"
)

// ErrHTTPStatus is wrapped by CheckStatus when a response has an unexpected status.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Client issues GET requests carrying the configured User-Agent and, for hosts
// with stored credentials, basic auth. Requests are never retried.
type Client struct {
	HTTP        *http.Client
	UserAgent   string
	Credentials secrets.Credentials
}

// NewClient builds a Client from cfg. creds may be nil.
func NewClient(cfg types.HTTPConfig, creds secrets.Credentials) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: cfg.Timeout},
		UserAgent:   cfg.UserAgent,
		Credentials: creds,
	}
}

// Get sends a GET request for url with the extra headers in header. The
// caller owns the response body.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if user, pass, ok := c.Credentials.BasicAuth(req.URL.Hostname()); ok {
		req.SetBasicAuth(user, pass)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	return resp, nil
}

// CheckStatus returns nil when resp.StatusCode is one of want. Otherwise it
// drains and closes the body and returns an error wrapping ErrHTTPStatus.
func CheckStatus(resp *http.Response, want ...int) error {
	for _, code := range want {
		if resp.StatusCode == code {
			return nil
		}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return fmt.Errorf("%w: HTTP %d from %s", ErrHTTPStatus, resp.StatusCode, resp.Request.URL)
}
