// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Command server runs the recommendation HTTP service.
//
// The service answers "which race should I run this week?" for iRacing
// members: it loads the current week's schedule and the member's history
// from the collaborators, filters by license eligibility, scores every
// opportunity on eight weighted factors, and serves ranked
// recommendations over a JSON API.
//
// # Quick Start
//
//	SIRT_SCHEDULE_URL=http://schedule:8091 \
//	SIRT_STATS_URL=http://stats:8092 \
//	server
//
// Configuration layers: built-in defaults, then an optional config.yaml,
// then SIRT_-prefixed environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/BenGiese22/should-i-race-this/internal/api"
	"github.com/BenGiese22/should-i-race-this/internal/cache"
	"github.com/BenGiese22/should-i-race-this/internal/config"
	"github.com/BenGiese22/should-i-race-this/internal/logging"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
	"github.com/BenGiese22/should-i-race-this/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("schedule_url", cfg.Schedule.URL).
		Str("stats_url", cfg.Stats.URL).
		Bool("cache_enabled", cfg.Engine.CacheEnabled).
		Msg("configuration loaded")

	logger := logging.Logger()

	recommendationCache := cache.New(cfg.Engine.OpportunitiesTTL)
	defer recommendationCache.Close()

	scheduleClient := upstream.NewScheduleClient(upstream.Options{
		BaseURL: cfg.Schedule.URL,
		APIKey:  cfg.Schedule.APIKey,
		Timeout: cfg.Schedule.Timeout,
	}, logger)
	statsClient := upstream.NewStatsClient(upstream.Options{
		BaseURL: cfg.Stats.URL,
		APIKey:  cfg.Stats.APIKey,
		Timeout: cfg.Stats.Timeout,
	}, logger)

	engine, err := recommend.NewEngine(cfg.RecommendConfig(), logger, recommendationCache, scheduleClient, scheduleClient, statsClient)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize recommendation engine")
	}

	handler := api.NewHandler(engine, recommendationCache, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.NewRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}

	logging.Info().Msg("server stopped")
}
