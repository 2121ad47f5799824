package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int    `envconfig:"PORT" default:"8080"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	DatabasePath    string `envconfig:"DATABASE_PATH" default:"database.db"`
	Version         string `envconfig:"VERSION" default:"dev"`
	BcryptCost      int    `envconfig:"BCRYPT_COST" default:"12"`
	TokenSecret     string `envconfig:"TOKEN_SECRET" required:"true"`
	TokenTTLMinutes int    `envconfig:"TOKEN_TTL_MINUTES" default:"30"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
