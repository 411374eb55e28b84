// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration failed validation: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitReqs = -1 }},
		{"missing schedule url", func(c *Config) { c.Schedule.URL = "" }},
		{"missing stats url", func(c *Config) { c.Stats.URL = "" }},
		{"zero opportunities ttl", func(c *Config) { c.Engine.OpportunitiesTTL = 0 }},
		{"zero horizon", func(c *Config) { c.Engine.Horizon = 0 }},
		{"max results out of range", func(c *Config) { c.Engine.DefaultMaxResults = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SIRT_SERVER_PORT", "server.port"},
		{"SIRT_SERVER_RATE_LIMIT_REQS", "server.rate_limit_reqs"},
		{"SIRT_SCHEDULE_URL", "schedule.url"},
		{"SIRT_ENGINE_CACHE_ENABLED", "engine.cache_enabled"},
		{"SIRT_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SIRT_SERVER_PORT", "9090")
	t.Setenv("SIRT_SCHEDULE_URL", "http://schedule.internal:8080")
	t.Setenv("SIRT_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Schedule.URL != "http://schedule.internal:8080" {
		t.Errorf("schedule url = %q", cfg.Schedule.URL)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	// Untouched fields keep their defaults.
	if cfg.Engine.DefaultMaxResults != 20 {
		t.Errorf("default max results = %d, want 20", cfg.Engine.DefaultMaxResults)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8888\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8888\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SIRT_SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999 (env must beat file)", cfg.Server.Port)
	}
}

func TestRecommendConfigOverlay(t *testing.T) {
	cfg := Default()
	cfg.Engine.CacheEnabled = false
	cfg.Engine.OpportunitiesTTL = 5 * time.Minute
	cfg.Engine.GlobalStatsTTL = 30 * time.Minute
	cfg.Engine.Horizon = 48 * time.Hour

	rc := cfg.RecommendConfig()
	if rc.Cache.Enabled {
		t.Error("cache enabled not overlaid")
	}
	if rc.Cache.OpportunitiesTTL != 5*time.Minute || rc.Cache.GlobalStatsTTL != 30*time.Minute {
		t.Errorf("TTLs not overlaid: %+v", rc.Cache)
	}
	if rc.Horizon != 48*time.Hour {
		t.Errorf("horizon = %v, want 48h", rc.Horizon)
	}
	// Scoring policy stays at engine defaults.
	if rc.Weights.Balanced.Performance != 0.20 {
		t.Errorf("balanced performance weight = %v, want 0.20", rc.Weights.Balanced.Performance)
	}
}
