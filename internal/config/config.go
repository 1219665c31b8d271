// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

// Package config loads the client configuration with layered sources:
// built-in defaults, then an optional YAML file, then environment
// variables with the MELOGRAPH_ prefix. ENV > file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"melograph.yaml",
	"melograph.yml",
	"/etc/melograph/config.yaml",
	"/etc/melograph/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "MELOGRAPH_CONFIG"

// envPrefix is stripped from environment variables before mapping them
// onto koanf paths: MELOGRAPH_SERVER_URL -> server.url.
const envPrefix = "MELOGRAPH_"

// Config is the complete client configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Cache   CacheConfig   `koanf:"cache"`
	Poller  PollerConfig  `koanf:"poller"`
	Prefs   PrefsConfig   `koanf:"prefs"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServerConfig points at the scrobble server and carries optional
// credentials for non-interactive login.
type ServerConfig struct {
	URL      string `koanf:"url" validate:"required,url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Remember bool   `koanf:"remember"`
}

// LoggingConfig mirrors the logging package options.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// CacheConfig bounds the query cache.
type CacheConfig struct {
	Capacity int           `koanf:"capacity" validate:"gt=0"`
	TTL      time.Duration `koanf:"ttl" validate:"gt=0"`
}

// PollerConfig drives the now-playing poller.
type PollerConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
	MinGap   time.Duration `koanf:"min_gap" validate:"gt=0"`
}

// PrefsConfig locates the persisted preference file. An empty path
// selects the in-memory store.
type PrefsConfig struct {
	Path string `koanf:"path"`
}

// MetricsConfig controls the optional local /metrics listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen" validate:"required_if=Enabled true"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:      "http://localhost:4110",
			Remember: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Capacity: 512,
			TTL:      5 * time.Minute,
		},
		Poller: PollerConfig{
			Interval: 10 * time.Second,
			MinGap:   time.Second,
		},
		Prefs: PrefsConfig{
			Path: "", // in-memory unless configured
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9590",
		},
	}
}

// Load builds the configuration from defaults, the config file (when
// present), and MELOGRAPH_* environment variables, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path; an empty path
// skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// envTransform maps MELOGRAPH_SECTION_KEY_NAME onto section.key_name.
// Only the first underscore separates the section, so multi-word keys
// like poller.min_gap survive.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

// findConfigFile returns the config file path from the environment or
// the first existing default path, or empty when none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
