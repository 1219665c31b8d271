// Melograph - Listening Statistics Client for Scrobble Servers
// Copyright 2026 Melograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melograph/melograph

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.URL != "http://localhost:4110" {
		t.Fatalf("got server url %q", cfg.Server.URL)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("got logging %+v", cfg.Logging)
	}
	if cfg.Cache.Capacity != 512 || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("got cache %+v", cfg.Cache)
	}
	if cfg.Poller.Interval != 10*time.Second {
		t.Fatalf("got poller interval %v", cfg.Poller.Interval)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("metrics listener must be off by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "melograph.yaml")
	doc := `
server:
  url: https://listens.example.net
  username: gabe
logging:
  level: debug
poller:
  interval: 3s
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.URL != "https://listens.example.net" {
		t.Fatalf("got server url %q", cfg.Server.URL)
	}
	if cfg.Server.Username != "gabe" {
		t.Fatalf("got username %q", cfg.Server.Username)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("got level %q", cfg.Logging.Level)
	}
	if cfg.Poller.Interval != 3*time.Second {
		t.Fatalf("got interval %v", cfg.Poller.Interval)
	}

	// Untouched sections keep their defaults.
	if cfg.Logging.Format != "console" {
		t.Fatalf("got format %q", cfg.Logging.Format)
	}
	if cfg.Cache.Capacity != 512 {
		t.Fatalf("got capacity %d", cfg.Cache.Capacity)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "melograph.yaml")
	doc := "server:\n  url: https://from-file.example.net\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MELOGRAPH_SERVER_URL", "https://from-env.example.net")
	t.Setenv("MELOGRAPH_CACHE_TTL", "90s")
	t.Setenv("MELOGRAPH_POLLER_MIN_GAP", "2s")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.URL != "https://from-env.example.net" {
		t.Fatalf("got server url %q", cfg.Server.URL)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("got cache ttl %v", cfg.Cache.TTL)
	}
	if cfg.Poller.MinGap != 2*time.Second {
		t.Fatalf("got min gap %v", cfg.Poller.MinGap)
	}
}

func TestEnvTransform(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
	}{
		{"MELOGRAPH_SERVER_URL", "server.url"},
		{"MELOGRAPH_POLLER_MIN_GAP", "poller.min_gap"},
		{"MELOGRAPH_METRICS_ENABLED", "metrics.enabled"},
	} {
		if got := envTransform(tt.in); got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty server url":   func(c *Config) { c.Server.URL = "" },
		"malformed url":      func(c *Config) { c.Server.URL = "not a url" },
		"unknown log level":  func(c *Config) { c.Logging.Level = "verbose" },
		"unknown log format": func(c *Config) { c.Logging.Format = "xml" },
		"zero capacity":      func(c *Config) { c.Cache.Capacity = 0 },
		"zero interval":      func(c *Config) { c.Poller.Interval = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
