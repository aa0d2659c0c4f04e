// ABOUTME: Environment-driven configuration for the sync server.
// ABOUTME: STEPBOX_-prefixed variables; metrics credentials optional.
package server

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds the sync server's runtime settings.
type Config struct {
	Addr        string `env:"STEPBOX_ADDR" envDefault:":8080"`
	MetricsUser string `env:"STEPBOX_METRICS_USER"`
	MetricsPass string `env:"STEPBOX_METRICS_PASS"`
}

// LoadConfig reads the server configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}

// MetricsProtected reports whether /metrics requires basic auth.
func (c *Config) MetricsProtected() bool {
	return c.MetricsUser != "" && c.MetricsPass != ""
}
