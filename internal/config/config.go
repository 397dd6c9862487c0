package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/chronoscan/internal/archive"
	"github.com/nao1215/chronoscan/internal/report"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "chronoscan"

	// DefaultEndpoint is the public Wayback Machine CDX search endpoint.
	DefaultEndpoint = archive.DefaultEndpoint

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = archive.DefaultTimeout

	// DefaultRetries of 0 means a single attempt.
	DefaultRetries = 0

	// DefaultRetryBackoff is multiplied by the attempt number between retries.
	DefaultRetryBackoff = 2 * time.Second

	// DefaultBatchSize is the number of targets scanned concurrently with --list.
	// The public index throttles aggressive clients, so this stays small.
	DefaultBatchSize = 4

	// DefaultFormat is the reference text report.
	DefaultFormat = string(report.FormatText)
)

// Formats returns the supported report format names.
func Formats() []string {
	formats := report.Formats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return names
}

// DefaultUserAgent returns the User-Agent for the given build version.
func DefaultUserAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return AppName + "/" + version
}

// Config holds all configuration options for chronoscan.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed down explicitly.
type Config struct {
	// Targets are the normalized hosts to scan.
	Targets []string

	// ListFile is the --list file the targets were read from, if any.
	ListFile string

	// Endpoint is the CDX search endpoint.
	Endpoint string

	// Timeout bounds a single archive request.
	Timeout time.Duration

	// Retries is the number of extra attempts after a timeout or 5xx.
	Retries int

	// RetryBackoff is the base delay between retries.
	RetryBackoff time.Duration

	// UserAgent is sent with every archive request.
	UserAgent string

	// ProxyAddress routes archive requests through a SOCKS5 proxy when set.
	ProxyAddress string

	// BatchSize is the number of concurrent scans in batch mode.
	BatchSize int

	// Format is one of Formats().
	Format string

	// ReportFile overrides the default report filename. Single target only.
	ReportFile string

	// Verbose enables debug logging.
	Verbose bool

	// Quiet suppresses the banner and completion line.
	Quiet bool

	// NoColor disables colored console output.
	NoColor bool

	// ConfigFilePath is an explicit config file. When empty, .chronoscan is
	// searched for in the current directory and then the home directory.
	ConfigFilePath string

	// SaveToDB stores each run in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		Timeout:      DefaultTimeout,
		Retries:      DefaultRetries,
		RetryBackoff: DefaultRetryBackoff,
		UserAgent:    DefaultUserAgent(""),
		BatchSize:    DefaultBatchSize,
		Format:       DefaultFormat,
		SaveToDB:     true,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for chronoscan.
// On Linux: ~/.local/share/chronoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// IsBatch reports whether more than one target is scanned or the targets
// came from a list file.
func (c *Config) IsBatch() bool {
	return c.ListFile != "" || len(c.Targets) > 1
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Endpoint == "" {
		return ErrEmptyEndpoint
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Retries < 0 {
		return ErrInvalidRetries
	}

	if c.RetryBackoff < 0 {
		return ErrInvalidRetryBackoff
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return ErrUnknownFormat
	}

	if c.ReportFile != "" && c.IsBatch() {
		return ErrOutputWithBatch
	}

	if c.ProxyAddress != "" && !archive.IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	return nil
}
