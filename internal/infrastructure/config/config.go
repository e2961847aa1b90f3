package config

import "github.com/kelseyhightower/envconfig"

// Database holds libsql/Turso database configuration. A plain file DSN
// (file:enrollwatch.db) needs no auth token; a remote Turso URL does.
type Database struct {
	URL       string `envconfig:"ENROLLWATCH_DATABASE_URL" default:"file:enrollwatch.db"`
	AuthToken string `envconfig:"ENROLLWATCH_AUTH_TOKEN"`
}

// Config holds configuration for the enrollwatch CLI.
type Config struct {
	Database Database
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	return &cfg, nil
}
