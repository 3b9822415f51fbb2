package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout. Large enclosures need a generous value.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "podfetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DownloaderBackend identifies the tool that fetches enclosure files.
type DownloaderBackend string

const (
	DownloaderHTTP DownloaderBackend = "http"
	DownloaderWget DownloaderBackend = "wget"
	DownloaderCurl DownloaderBackend = "curl"
)

// FetchConfig holds settings for the feed processor.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// FeedsFile is the plain-text list of feed URLs, one per line.
	FeedsFile string `json:"feeds_file" yaml:"feeds_file"`

	// DownloadDir is the directory enclosures are written to.
	DownloadDir string `json:"download_dir" yaml:"download_dir"`

	// Playlist is the download log, most recent first. Defaults to
	// DownloadDir/playlist.m3u.
	Playlist string `json:"playlist" yaml:"playlist"`

	// MaxPerFeed caps the number of enclosures taken from each feed (default 1).
	MaxPerFeed int `json:"max_per_feed" yaml:"max_per_feed"`

	// Downloader selects the fetch backend: http, wget, or curl.
	Downloader DownloaderBackend `json:"downloader" yaml:"downloader"`

	// ExactMatch switches the playlist check from substring to whole-line matching.
	ExactMatch bool `json:"exact_match" yaml:"exact_match"`

	// DryRun reports what would be downloaded without touching disk.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// SecretsDir holds per-host basic auth credentials for private feeds.
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir"`
}

// AssemblerBackend identifies the tool that turns page images into a PDF.
type AssemblerBackend string

const (
	AssemblerPdfcpu  AssemblerBackend = "pdfcpu"
	AssemblerImg2pdf AssemblerBackend = "img2pdf"
)

// ConvertConfig holds settings for the archive converter.
type ConvertConfig struct {
	// Assembler selects the page assembly backend: pdfcpu or img2pdf.
	Assembler AssemblerBackend `json:"assembler" yaml:"assembler"`

	// PageSize is the paper format every page is fitted to (default "A4").
	PageSize string `json:"page_size" yaml:"page_size"`

	// Extractor forces a specific extraction tool (unrar, 7z, bsdtar).
	// Empty means auto-detect.
	Extractor string `json:"extractor,omitempty" yaml:"extractor,omitempty"`
}
