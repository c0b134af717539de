// Package config handles configuration for the tutoring client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the tutoring CLI.
//
// Fields:
//   - DatabasePath: path of the local SQLite database file.
//   - ProviderEndpointAddr: base URL of the AI collaborator endpoint.
//   - ProviderModel: model name sent with every provider request.
//   - RequestTimeout: per-request bound for provider calls.
type Config struct {
	DatabasePath         string
	ProviderEndpointAddr string
	ProviderModel        string
	RequestTimeout       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "tutor.db"
	c.ProviderEndpointAddr = "http://127.0.0.1:8090"
	c.ProviderModel = "tutor-default"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
