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
const DefaultConfigFile = ".spatula.yaml"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers should treat this as fatal only when the path was
// explicitly specified by the user.
var ErrConfigNotFound = errors.New("configuration file not found")

// fileConfig is the YAML shape of the configuration file. Durations are
// Go duration strings ("30s", "2m"); pointers distinguish unset fields
// from zero values so file settings only override what they mention.
type fileConfig struct {
	UserAgent string `yaml:"user_agent"`
	Retries   *int   `yaml:"retries"`
	Timeout   string `yaml:"timeout"`
	Cache     *bool  `yaml:"cache"`
	CacheDir  string `yaml:"cache_dir"`
	CacheTTL  string `yaml:"cache_ttl"`
	Verbose   *bool  `yaml:"verbose"`
}

// LoadConfigFile loads harness configuration from a YAML file, applying
// its settings on top of the defaults. If the file does not exist it
// returns ErrConfigNotFound.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Default()
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout %q: %w", fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.Cache != nil {
		cfg.Cache = *fc.Cache
	}
	if fc.CacheDir != "" {
		cfg.CacheDir = fc.CacheDir
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("parse cache_ttl %q: %w", fc.CacheTTL, err)
		}
		cfg.CacheTTL = d
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return cfg, nil
}

// FindConfigFile searches for the configuration file in order:
//  1. The explicit path, when specified
//  2. The current directory
//  3. The user's home directory
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
