package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".chronoscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .chronoscan configuration file.
// Zero values mean "not set" and leave the Config untouched.
type File struct {
	// Timeout is a Go duration string such as "45s" or "2m".
	Timeout string `yaml:"timeout,omitempty"`

	// Endpoint overrides the CDX endpoint, e.g. for a mirror.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Retries is the number of extra attempts after a timeout or 5xx.
	Retries *int `yaml:"retries,omitempty"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is a SOCKS5 "host:port" address.
	Proxy string `yaml:"proxy,omitempty"`

	// Format is the default report format.
	Format string `yaml:"format,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// Apply copies the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", cf.Timeout, err)
		}
		cfg.Timeout = d
	}
	if cf.Endpoint != "" {
		cfg.Endpoint = cf.Endpoint
	}
	if cf.Retries != nil {
		cfg.Retries = *cf.Retries
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.Proxy != "" {
		cfg.ProxyAddress = cf.Proxy
	}
	if cf.Format != "" {
		cfg.Format = cf.Format
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .chronoscan in the current directory
// 3. Look for .chronoscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
