package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "rbpscraper"

	// DefaultTimeout applies to each HTTP request.
	DefaultTimeout = 60 * time.Second

	// DefaultSearchDelay spaces out search result page fetches.
	DefaultSearchDelay = 2 * time.Second

	// DefaultDetailDelay spaces out article fetches. Articles have always
	// been fetched back to back, so this is zero.
	DefaultDetailDelay = 0

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// DefaultMaxBodySize caps the bytes read from one response.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultProgressStep is the percentage interval between progress notices.
	DefaultProgressStep = 10

	// DefaultOutputDir is used when no output directory is configured.
	DefaultOutputDir = "."
)

// Config holds every option of a crawl run.
// It is populated from the config file and CLI flags, then passed down
// explicitly.
type Config struct {
	// Descriptor is a human readable description of the search, such as an
	// artist or a genre. Its initials form the id label and it fills the
	// topic column of the library.
	Descriptor string

	// SearchURL is the first page of the search results. It must contain a
	// PageNumber=<n> parameter.
	SearchURL string

	// OutputDir receives html/, txt/ and the library CSV.
	OutputDir string

	// Cookie is the raw cookie header copied from a logged-in browser.
	// When empty the user is prompted.
	Cookie string

	// ConfigFilePath is the path given with --config, if any.
	ConfigFilePath string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// SearchDelay is the wait between search result page fetches.
	SearchDelay time.Duration

	// DetailDelay is the wait between article fetches.
	DetailDelay time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodySize is the maximum number of bytes read from a response.
	MaxBodySize int64

	// ProxyAddress is an optional upstream proxy, either a URL
	// (http://host:port, socks5://host:port) or a bare SOCKS5 host:port.
	ProxyAddress string

	// ProgressStep is the percentage interval between progress notices
	// during the detail phase.
	ProgressStep int

	// SkipText disables the plain-text archive (txt/).
	SkipText bool

	// RespectRobots refuses pages disallowed by the site's robots.txt.
	RespectRobots bool

	// JSONReport prints the run report as JSON.
	JSONReport bool

	// MarkdownReport prints the run report as Markdown.
	MarkdownReport bool

	// ReportFile writes the run report to a file instead of stdout.
	ReportFile string

	// SaveToDB records the run and its library in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		Timeout:      DefaultTimeout,
		SearchDelay:  DefaultSearchDelay,
		DetailDelay:  DefaultDetailDelay,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		ProgressStep: DefaultProgressStep,
		SaveToDB:     true,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the data directory used for the history database.
// On Linux: ~/.local/share/rbpscraper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the per-user configuration directory.
// On Linux: ~/.config/rbpscraper
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SearchURL) == "" {
		return ErrNoSearchURL
	}
	if !strings.Contains(c.SearchURL, "PageNumber=") {
		return ErrInvalidSearchURL
	}
	if len(strings.Fields(c.Descriptor)) == 0 {
		return ErrNoDescriptor
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrNoOutputDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SearchDelay < 0 || c.DetailDelay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.ProgressStep < 1 || c.ProgressStep > 100 {
		return ErrInvalidProgressStep
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
