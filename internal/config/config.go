// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package config loads and validates service configuration from layered
// sources: built-in defaults, an optional YAML file, and SIRT_-prefixed
// environment variables, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Schedule UpstreamConfig `koanf:"schedule"`
	Stats    UpstreamConfig `koanf:"stats"`
	Engine   EngineConfig   `koanf:"engine"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// UpstreamConfig configures one collaborator endpoint.
type UpstreamConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// EngineConfig configures engine-level caching and projection. Scoring
// weights and curves are engine policy, not deployment configuration.
type EngineConfig struct {
	CacheEnabled      bool          `koanf:"cache_enabled"`
	OpportunitiesTTL  time.Duration `koanf:"opportunities_ttl"`
	GlobalStatsTTL    time.Duration `koanf:"global_stats_ttl"`
	Horizon           time.Duration `koanf:"horizon"`
	DefaultMaxResults int           `koanf:"default_max_results"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// Default returns the built-in defaults, applied before the config file
// and environment layers. Also the baseline for tests.
func Default() *Config {
	engineDefaults := recommend.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Schedule: UpstreamConfig{
			URL:     "http://127.0.0.1:8091",
			Timeout: 15 * time.Second,
		},
		Stats: UpstreamConfig{
			URL:     "http://127.0.0.1:8092",
			Timeout: 15 * time.Second,
		},
		Engine: EngineConfig{
			CacheEnabled:      engineDefaults.Cache.Enabled,
			OpportunitiesTTL:  engineDefaults.Cache.OpportunitiesTTL,
			GlobalStatsTTL:    engineDefaults.Cache.GlobalStatsTTL,
			Horizon:           engineDefaults.Horizon,
			DefaultMaxResults: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the loaded configuration. Called by Load; exported for
// tests and manual construction.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must not be negative")
	}
	if c.Schedule.URL == "" {
		return fmt.Errorf("schedule.url is required")
	}
	if c.Stats.URL == "" {
		return fmt.Errorf("stats.url is required")
	}
	if c.Engine.OpportunitiesTTL <= 0 || c.Engine.GlobalStatsTTL <= 0 {
		return fmt.Errorf("engine TTLs must be positive")
	}
	if c.Engine.Horizon <= 0 {
		return fmt.Errorf("engine.horizon must be positive")
	}
	if c.Engine.DefaultMaxResults < 1 || c.Engine.DefaultMaxResults > 100 {
		return fmt.Errorf("engine.default_max_results must be in [1,100], got %d", c.Engine.DefaultMaxResults)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// RecommendConfig builds the engine configuration from policy defaults
// plus the deployment-tunable cache and horizon settings.
func (c *Config) RecommendConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Cache.Enabled = c.Engine.CacheEnabled
	cfg.Cache.OpportunitiesTTL = c.Engine.OpportunitiesTTL
	cfg.Cache.GlobalStatsTTL = c.Engine.GlobalStatsTTL
	cfg.Horizon = c.Engine.Horizon
	return cfg
}
