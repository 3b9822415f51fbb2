// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Enclosure is a downloadable media file referenced by a feed item.
type Enclosure struct {
	// URL is the enclosure location as it appears in the feed.
	URL string `json:"url" yaml:"url"`

	// Type is the MIME type advertised by the feed (e.g. "audio/mpeg").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Length is the advertised size in bytes, as the feed states it.
	Length string `json:"length,omitempty" yaml:"length,omitempty"`

	// ItemTitle is the title of the feed item carrying the enclosure.
	ItemTitle string `json:"item_title,omitempty" yaml:"item_title,omitempty"`

	// FeedURL is the feed the enclosure was found in.
	FeedURL string `json:"feed_url" yaml:"feed_url"`

	// FeedTitle is the channel title of that feed.
	FeedTitle string `json:"feed_title,omitempty" yaml:"feed_title,omitempty"`
}

// Episode records one successful download.
type Episode struct {
	// Filename is the sanitized name the file was stored under; it is also
	// the playlist entry.
	Filename string `json:"filename" yaml:"filename"`

	// SourceURL is the enclosure URL the file was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// FeedURL is the feed the enclosure came from.
	FeedURL string `json:"feed_url" yaml:"feed_url"`

	// FeedTitle is the channel title of the feed.
	FeedTitle string `json:"feed_title,omitempty" yaml:"feed_title,omitempty"`

	// Title is the title of the feed item.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Size is the number of bytes on disk after the download.
	Size int64 `json:"size" yaml:"size"`

	// DownloadedAt is when the download finished.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}
