// Package config loads application settings from flags, environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	GithubToken string        `mapstructure:"GITHUB_TOKEN"`
	APIURL      string        `mapstructure:"GITHUB_API_URL"`
	GraphQLURL  string        `mapstructure:"GITHUB_GRAPHQL_URL"`
	UserAgent   string        `mapstructure:"USER_AGENT"`
	MaxAttempts int           `mapstructure:"STATS_MAX_ATTEMPTS"`
	RetryDelay  time.Duration `mapstructure:"STATS_RETRY_DELAY"`
}

// New returns a viper instance with the application defaults and environment binding.
// Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com/")
	v.SetDefault("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql")
	v.SetDefault("USER_AGENT", "github-stats")
	v.SetDefault("STATS_MAX_ATTEMPTS", 60)
	v.SetDefault("STATS_RETRY_DELAY", "2s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional .env file in dir and unmarshals the result.
func Load(v *viper.Viper, dir string) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("STATS_MAX_ATTEMPTS must be at least 1, got %d", cfg.MaxAttempts)
	}
	if cfg.RetryDelay < 0 {
		return nil, fmt.Errorf("STATS_RETRY_DELAY must not be negative, got %s", cfg.RetryDelay)
	}
	if cfg.APIURL == "" {
		return nil, errors.New("GITHUB_API_URL is a required configuration field")
	}

	return &cfg, nil
}
