// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is the service version reported by the health endpoint.
const Version = "1.0.0"

// NewRouter builds the full HTTP routing tree.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if h.cfg.Server.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(h.cfg.Server.RateLimitReqs, h.cfg.Server.RateLimitWindow))
		}
		r.Use(loggingMiddleware)
		r.Use(metricsMiddleware)

		r.Get("/recommendations", h.Recommendations)
		r.Get("/analysis/{seriesID}/{trackID}", h.AnalyzeOpportunity)
		r.Get("/licenses/progression", h.LicenseProgression)
		r.Get("/health", h.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
