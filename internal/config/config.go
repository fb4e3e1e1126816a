package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for per-user directory names.
const AppName = "spatula"

// Defaults for harness configuration.
const (
	// DefaultRetries is the number of retry attempts after a failed
	// request.
	DefaultRetries = 2

	// DefaultTimeout bounds each individual request.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheTTL is how long cached responses stay fresh.
	DefaultCacheTTL = time.Hour
)

// Config holds the harness configuration assembled from the config
// file and command-line flags. The YAML file shape lives in the loader;
// this struct is the merged result.
type Config struct {
	// UserAgent is the User-Agent header sent with every request.
	// Empty means the fetch client's default.
	UserAgent string

	// Retries is the number of retry attempts after a failed request.
	Retries int

	// Timeout bounds each individual request.
	Timeout time.Duration

	// Cache enables the sqlite response cache.
	Cache bool

	// CacheDir is where the response cache lives. Empty means the
	// per-user cache directory.
	CacheDir string

	// CacheTTL is how long cached responses stay fresh.
	CacheTTL time.Duration

	// Verbose enables debug logging.
	Verbose bool
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Retries:  DefaultRetries,
		Timeout:  DefaultTimeout,
		Cache:    false,
		CacheTTL: DefaultCacheTTL,
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Retries < 0 {
		return ErrInvalidRetries
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}
	return nil
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}
