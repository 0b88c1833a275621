// Package config loads the toolform configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TOOLFORM_"

// Config is the CLI and server configuration. Zero fields in a file keep
// their defaults.
type Config struct {
	// Server is the MCP endpoint URL.
	Server   string        `yaml:"server"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"logLevel"`
	// LogFormat is "text" or "json".
	LogFormat string `yaml:"logFormat"`
	// Language selects the issue message catalog.
	Language string `yaml:"language"`
	// Listen is the address of the HTTP surface.
	Listen           string `yaml:"listen"`
	DropStaleResults bool   `yaml:"dropStaleResults"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:    "http://localhost:3000/mcp",
		Timeout:   30 * time.Second,
		LogLevel:  "info",
		LogFormat: "text",
		Language:  "en",
		Listen:    ":8080",
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("SERVER", &cfg.Server)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LANGUAGE", &cfg.Language)
	str("LISTEN", &cfg.Listen)
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "DROP_STALE_RESULTS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDROP_STALE_RESULTS: %w", EnvPrefix, err)
		}
		cfg.DropStaleResults = b
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch c.Language {
	case "en", "ja":
	default:
		errs = append(errs, fmt.Errorf("unsupported language %q", c.Language))
	}
	return errors.Join(errs...)
}
