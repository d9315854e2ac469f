// Package config loads invgui settings from the environment and an
// optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "INVGUI_"

// Config holds the process settings.
type Config struct {
	// Database is the SQLite file inventories are persisted in.
	Database string `env:"DATABASE" envDefault:"invgui.db" yaml:"database"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	// Format is the CLI output format: text or json.
	Format string `env:"FORMAT" envDefault:"text" yaml:"format"`
	// MaxHops bounds click forwarding through linked slots.
	MaxHops int `env:"MAX_HOPS" envDefault:"64" yaml:"max_hops"`
	// DefaultCapacity is the slot capacity of newly created inventories.
	DefaultCapacity int `env:"DEFAULT_CAPACITY" envDefault:"64" yaml:"default_capacity"`
}

// Load reads the environment of the current process and, if path is not
// empty, overlays the YAML file at path.
func Load(path string) (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()), path)
}

// LoadFrom is Load with an explicit environment.
func LoadFrom(environ map[string]string, path string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.overlay(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay decodes YAML from r over cfg. Fields absent from the document
// keep their values; unknown fields are rejected.
func (c *Config) overlay(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Format != "text" && c.Format != "json" {
		errs = append(errs, fmt.Errorf("format must be text or json, got %q", c.Format))
	}
	if c.MaxHops < 1 {
		errs = append(errs, fmt.Errorf("max_hops must be positive, got %d", c.MaxHops))
	}
	if c.DefaultCapacity < 1 {
		errs = append(errs, fmt.Errorf("default_capacity must be positive, got %d", c.DefaultCapacity))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
