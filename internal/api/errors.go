// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package api

import (
	"errors"
	"net/http"

	"github.com/BenGiese22/should-i-race-this/internal/metrics"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

// respondEngineError maps the engine's error taxonomy onto HTTP codes:
// invalid requests are the caller's fault (400), missing opportunities are
// 404, collaborator failures are 502, and anything else is 500.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		metrics.RecommendationErrors.WithLabelValues("invalid_request").Inc()
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, recommend.ErrOpportunityNotFound):
		metrics.RecommendationErrors.WithLabelValues("not_found").Inc()
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, recommend.ErrUpstream):
		metrics.RecommendationErrors.WithLabelValues("upstream").Inc()
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "A data collaborator is unavailable", err)
	default:
		metrics.RecommendationErrors.WithLabelValues("internal").Inc()
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}
