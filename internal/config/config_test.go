package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefault tests the default configuration values.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Retries != DefaultRetries {
		t.Errorf("unexpected retries: %d", cfg.Retries)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("unexpected timeout: %v", cfg.Timeout)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("unexpected cache ttl: %v", cfg.CacheTTL)
	}
	if cfg.Cache {
		t.Error("cache must be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

// TestValidate tests configuration validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Retries = -1 },
			wantErr: ErrInvalidRetries,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.CacheTTL = -time.Second },
			wantErr: ErrInvalidCacheTTL,
		},
		{
			name:   "zero retries is valid",
			mutate: func(c *Config) { c.Retries = 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests YAML loading and merging onto defaults.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("file settings override defaults, the rest stay", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `user_agent: "roster-scraper/1.0"
timeout: 10s
cache: true
cache_ttl: 2h
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cfg.UserAgent != "roster-scraper/1.0" {
			t.Errorf("unexpected user agent: %q", cfg.UserAgent)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("unexpected timeout: %v", cfg.Timeout)
		}
		if !cfg.Cache {
			t.Error("expected cache enabled")
		}
		if cfg.CacheTTL != 2*time.Hour {
			t.Errorf("unexpected cache ttl: %v", cfg.CacheTTL)
		}
		if cfg.Retries != DefaultRetries {
			t.Errorf("unmentioned setting must keep its default, got %d", cfg.Retries)
		}
	})

	t.Run("zero retries in the file is honored", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("retries: 0\n"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cfg.Retries != 0 {
			t.Errorf("explicit zero must override the default, got %d", cfg.Retries)
		}
	})

	t.Run("missing file is ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed duration is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("timeout: soon\n"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(":\tnot yaml"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a parse error")
		}
	})
}

// TestFindConfigFile tests the explicit-path branch of the search.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("cache: true\n"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})
}
