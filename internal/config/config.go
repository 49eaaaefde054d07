// Package config loads the console configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full runtime configuration.
type Config struct {
	// APIURL is the base URL of the TOURTRA backend, including any path
	// prefix, without a trailing slash.
	APIURL string `yaml:"api_url" env:"TOURTRA_API_URL" env-default:"http://localhost:8000/api"`

	// Theme forces "light" or "dark"; empty auto-detects from the terminal.
	Theme string `yaml:"theme" env:"TOURTRA_THEME" env-default:""`

	// LogLevel is a zap level string (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"TOURTRA_LOG_LEVEL" env-default:"info"`

	// LogFile overrides where the console writes its log. The terminal itself
	// is owned by the UI, so logs never go to stdout in interactive mode.
	LogFile string `yaml:"log_file" env:"TOURTRA_LOG_FILE" env-default:""`

	// SessionFile overrides where the session is persisted.
	SessionFile string `yaml:"session_file" env:"TOURTRA_SESSION_FILE" env-default:""`
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tourtra", "config.yaml"), nil
}

// Load reads path if it exists, then applies environment overrides. A missing
// file is not an error: the environment and defaults fully describe a usable
// configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return &cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}
