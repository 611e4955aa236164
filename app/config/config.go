// Package config extends the core configuration with movie bot settings.
package config

import (
	"fmt"
	"net/url"
	"strings"

	coreconfig "github.com/m3rciful/moviebot/core/config"
)

// DefaultBackendTimeoutSeconds bounds every catalog backend call.
const DefaultBackendTimeoutSeconds = 10

// BackendConfig points the bot at the catalog backend.
type BackendConfig struct {
	APIURL         string `yaml:"api_url" envconfig:"BACKEND_API_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"BACKEND_TIMEOUT_SECONDS"`
	// PosterBaseURL prefixes relative poster paths; empty selects TMDB w500.
	PosterBaseURL string `yaml:"poster_base_url" envconfig:"POSTER_BASE_URL"`
}

// Config is the full movie bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Backend BackendConfig `yaml:"backend"`
}

// CoreConfig returns the embedded core section.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the YAML file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the core and backend sections and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	raw := strings.TrimSpace(cfg.Backend.APIURL)
	if raw == "" {
		return fmt.Errorf("backend.api_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.api_url must be an absolute http(s) URL, got %q", raw)
	}
	cfg.Backend.APIURL = raw

	if cfg.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be >= 0")
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = DefaultBackendTimeoutSeconds
	}
	cfg.Backend.PosterBaseURL = strings.TrimSpace(cfg.Backend.PosterBaseURL)
	return nil
}
