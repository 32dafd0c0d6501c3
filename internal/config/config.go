// Package config handles configuration loading and defaults.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Geocoder Geocoder `yaml:"geocoder" json:"geocoder"`
	Retry    Retry    `yaml:"retry" json:"retry"`
}

// Geocoder configures the reverse geocoding client.
type Geocoder struct {
	URL               string        `yaml:"url,omitempty" json:"url,omitempty"`
	Language          string        `yaml:"language,omitempty" json:"language,omitempty"`
	UserAgent         string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RequestsPerSecond float64       `yaml:"requests_per_second,omitempty" json:"requests_per_second,omitempty"`
	CacheSize         int64         `yaml:"cache_size,omitempty" json:"cache_size,omitempty"` // negative disables the cache
}

// Retry configures how timed out lookups are repeated.
type Retry struct {
	Delay time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	// MaxAttempts counts the first request; 0 retries until the context ends.
	MaxAttempts *uint `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
}

const (
	DefaultURL               = "https://nominatim.openstreetmap.org"
	DefaultLanguage          = "pl"
	DefaultUserAgent         = "geopoint"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 1
	DefaultCacheSize         = 10000
	DefaultRetryDelay        = 10 * time.Second
	DefaultMaxAttempts       = uint(5)
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	g := &c.Geocoder
	if g.URL == "" {
		g.URL = DefaultURL
	}
	if g.Language == "" {
		g.Language = DefaultLanguage
	}
	if g.UserAgent == "" {
		g.UserAgent = DefaultUserAgent
	}
	if g.Timeout <= 0 {
		g.Timeout = DefaultTimeout
	}
	if g.RequestsPerSecond <= 0 {
		g.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if g.CacheSize == 0 {
		g.CacheSize = DefaultCacheSize
	}

	if c.Retry.Delay <= 0 {
		c.Retry.Delay = DefaultRetryDelay
	}
	if c.Retry.MaxAttempts == nil {
		n := DefaultMaxAttempts
		c.Retry.MaxAttempts = &n
	}
}

// Attempts returns the configured attempt cap.
func (r Retry) Attempts() uint {
	if r.MaxAttempts == nil {
		return DefaultMaxAttempts
	}
	return *r.MaxAttempts
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}
