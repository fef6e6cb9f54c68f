// ABOUTME: Configuration loader for the hrdesk client
// ABOUTME: Reads an optional .env file, then environment variables with defaults

package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// Identity and dashboard API
	APIURL     string        `env:"HRDESK_API_URL, default=http://localhost:8080"`
	APITimeout time.Duration `env:"HRDESK_API_TIMEOUT, default=10s"`

	// Local state
	ConfigDir    string `env:"HRDESK_CONFIG_DIR"`
	TokenBackend string `env:"HRDESK_TOKEN_BACKEND, default=file"`
	MetricsFile  string `env:"HRDESK_METRICS_FILE"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=text"`
}

// Load reads .env from the working directory if present, then the process
// environment
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // missing .env is fine
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom builds a Config from an arbitrary lookuper
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.APIURL = ensureScheme(strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"))
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = DefaultConfigDir()
	}
	cfg.TokenBackend = strings.ToLower(cfg.TokenBackend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("HRDESK_API_URL is not a valid URL: %q", c.APIURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("HRDESK_API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	switch c.TokenBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("HRDESK_TOKEN_BACKEND must be file or sqlite, got %q", c.TokenBackend)
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("HRDESK_CONFIG_DIR is not set and no home directory was found")
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hrdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hrdesk")
}

// ensureScheme adds http:// if the URL has no scheme
func ensureScheme(raw string) string {
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		return "http://" + raw
	}
	return raw
}
