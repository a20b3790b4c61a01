// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	PublicURL    string        `envconfig:"PUBLIC_URL" default:"http://127.0.0.1:8090"`
	ShareTimeout time.Duration `envconfig:"SHARE_TIMEOUT" default:"20s"`
	LogoTimeout  time.Duration `envconfig:"LOGO_TIMEOUT" default:"5s"`

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"es"`
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"MXN"`

	SeedDemo      bool `envconfig:"SEED_DEMO" default:"false"`
	MaxImportRows int  `envconfig:"MAX_IMPORT_ROWS" default:"2000"`
}

// Load reads configuration from SALESDESK_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("salesdesk", &cfg); err != nil {
		return nil, err
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.PublicURL == "" {
		return nil, errors.New("public url must be provided")
	}
	if cfg.ShareTimeout <= 0 {
		return nil, errors.New("share timeout must be positive")
	}
	if cfg.MaxImportRows <= 0 {
		return nil, errors.New("max import rows must be positive")
	}
	return &cfg, nil
}

// Default returns the configuration used when the environment is empty.
func Default() *Config {
	return &Config{
		PublicURL:       "http://127.0.0.1:8090",
		ShareTimeout:    20 * time.Second,
		LogoTimeout:     5 * time.Second,
		DefaultLanguage: "es",
		DefaultCurrency: "MXN",
		MaxImportRows:   2000,
	}
}
