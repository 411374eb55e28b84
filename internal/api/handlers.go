// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package api exposes the recommendation engine over HTTP using the chi
// router. Handlers parse and validate query parameters, delegate to the
// engine, and translate its error taxonomy into status codes.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BenGiese22/should-i-race-this/internal/cache"
	"github.com/BenGiese22/should-i-race-this/internal/config"
	"github.com/BenGiese22/should-i-race-this/internal/metrics"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
	"github.com/BenGiese22/should-i-race-this/internal/validation"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	engine    *recommend.Engine
	cache     *cache.Cache
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates the handler set.
func NewHandler(engine *recommend.Engine, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		cache:     c,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// recommendationsQuery is the validated query surface of GET
// /api/v1/recommendations.
type recommendationsQuery struct {
	UserID                int    `validate:"required,gt=0"`
	Mode                  string `validate:"omitempty,racemode"`
	Category              string `validate:"omitempty,racecategory"`
	MinScore              int    `validate:"min=0,max=100"`
	MaxResults            int    `validate:"min=1,max=100"`
	IncludeAlmostEligible bool
}

// Recommendations handles GET /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, uerr := getIntParam(r, "user_id", 0)
	minScore, merr := getIntParam(r, "min_score", 0)
	maxResults, xerr := getIntParam(r, "max_results", h.cfg.Engine.DefaultMaxResults)
	for _, perr := range []error{uerr, merr, xerr} {
		if perr != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", perr.Error(), nil)
			return
		}
	}

	q := recommendationsQuery{
		UserID:                userID,
		Mode:                  r.URL.Query().Get("mode"),
		Category:              r.URL.Query().Get("category"),
		MinScore:              minScore,
		MaxResults:            maxResults,
		IncludeAlmostEligible: getBoolParam(r, "include_almost_eligible"),
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), nil)
		return
	}

	req := recommend.Request{
		UserID:                q.UserID,
		MinScore:              q.MinScore,
		MaxResults:            q.MaxResults,
		IncludeAlmostEligible: q.IncludeAlmostEligible,
	}
	if q.Mode != "" {
		mode, _ := recommend.ParseMode(q.Mode)
		req.Mode = mode
	}
	if q.Category != "" {
		category := recommend.Category(q.Category)
		req.Category = &category
	}

	resp, err := h.engine.GetFilteredRecommendations(r.Context(), req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	metrics.RecordRecommendation(time.Since(start), len(resp.Recommendations))
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: Metadata{
			Timestamp: time.Now().UTC(),
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	})
}

// AnalyzeOpportunity handles GET /api/v1/analysis/{seriesID}/{trackID}.
func (h *Handler) AnalyzeOpportunity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	seriesID, err1 := strconv.Atoi(chi.URLParam(r, "seriesID"))
	trackID, err2 := strconv.Atoi(chi.URLParam(r, "trackID"))
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "seriesID and trackID must be integers", nil)
		return
	}

	userID, err := getIntParam(r, "user_id", 0)
	if err != nil || userID <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required and must be a positive integer", nil)
		return
	}

	var mode recommend.Mode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		parsed, ok := recommend.ParseMode(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "mode must be one of: balanced, irating_push, safety_recovery", nil)
			return
		}
		mode = parsed
	}

	analysis, err := h.engine.AnalyzeOpportunity(r.Context(), userID, seriesID, trackID, mode)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   analysis,
		Metadata: Metadata{
			Timestamp: time.Now().UTC(),
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	})
}

// LicenseProgression handles GET /api/v1/licenses/progression.
func (h *Handler) LicenseProgression(w http.ResponseWriter, r *http.Request) {
	userID, err := getIntParam(r, "user_id", 0)
	if err != nil || userID <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required and must be a positive integer", nil)
		return
	}

	progression, err := h.engine.LicenseProgression(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     progression,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// healthStatus is the payload of GET /api/v1/health.
type healthStatus struct {
	Status     string      `json:"status"`
	Version    string      `json:"version"`
	Uptime     float64     `json:"uptime_seconds"`
	CacheStats cache.Stats `json:"cache_stats"`
	HitRate    float64     `json:"cache_hit_rate"`
}

// Health handles GET /api/v1/health. The service is stateless apart from
// the cache, so liveness is the only meaningful signal; collaborator
// failures surface per-request as upstream errors.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: healthStatus{
			Status:     "healthy",
			Version:    Version,
			Uptime:     time.Since(h.startTime).Seconds(),
			CacheStats: h.cache.GetStats(),
			HitRate:    h.cache.HitRate(),
		},
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// getIntParam extracts an integer query parameter. Absent parameters take
// the default; a present but non-integer value is an error so malformed
// input is rejected rather than silently replaced.
func getIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return val, nil
}

// getBoolParam extracts a boolean query parameter, false when absent or
// malformed.
func getBoolParam(r *http.Request, name string) bool {
	val, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && val
}
