// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package recommend implements the recommendation scoring and eligibility
// engine: license filtering, multi-factor scoring, race time projection,
// and batched global-stats resolution over the current week's racing
// opportunities.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/BenGiese22/should-i-race-this/internal/cache"
)

// HistoryProvider loads a member's racing history. Implemented by the
// upstream stats collaborator.
type HistoryProvider interface {
	GetUserHistory(ctx context.Context, userID int) (*UserHistory, error)
}

// OpportunityProvider loads the current schedule of racing opportunities.
type OpportunityProvider interface {
	GetOpportunities(ctx context.Context) ([]RacingOpportunity, error)
}

// Engine orchestrates the recommendation pipeline. It is safe for
// concurrent use: all mutable state lives in the cache, and scoring is
// pure computation over request-local data.
type Engine struct {
	cfg      *Config
	logger   zerolog.Logger
	cache    *cache.Cache
	batch    *BatchProcessor
	history  HistoryProvider
	schedule OpportunityProvider
	scorer   *Scorer
	racetime *RaceTimeCalculator

	// now is injectable for deterministic tests
	now func() time.Time
}

// NewEngine creates an engine. The config is cloned so later mutation by
// the caller cannot race with in-flight requests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, c *cache.Cache, history HistoryProvider, schedule OpportunityProvider, stats GlobalStatsProvider) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if history == nil || schedule == nil || stats == nil {
		return nil, fmt.Errorf("history, schedule, and stats providers are required")
	}

	cloned := cfg.Clone()

	return &Engine{
		cfg:      cloned,
		logger:   logger.With().Str("component", "recommend").Logger(),
		cache:    c,
		batch:    NewBatchProcessor(c, stats, cloned.Cache.GlobalStatsTTL, logger),
		history:  history,
		schedule: schedule,
		scorer:   NewScorer(cloned),
		racetime: NewRaceTimeCalculator(logger),
		now:      time.Now,
	}, nil
}

// validateRequest enforces request bounds before any collaborator call.
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive, got %d", ErrInvalidRequest, req.UserID)
	}
	if req.Mode < ModeBalanced || req.Mode > ModeSafetyRecovery {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidRequest, int(req.Mode))
	}
	if req.Category != nil && !req.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, string(*req.Category))
	}
	if req.MinScore < 0 || req.MinScore > 100 {
		return fmt.Errorf("%w: minScore must be in [0,100], got %d", ErrInvalidRequest, req.MinScore)
	}
	if req.MaxResults < 1 || req.MaxResults > 100 {
		return fmt.Errorf("%w: maxResults must be in [1,100], got %d", ErrInvalidRequest, req.MaxResults)
	}
	return nil
}

// GetFilteredRecommendations runs the full pipeline: validate, load
// history and opportunities, license-filter, score, merge almost-eligible
// entries, filter, sort, and truncate.
func (e *Engine) GetFilteredRecommendations(ctx context.Context, req Request) (*RecommendationResponse, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	logger := e.logger.With().Int("user_id", req.UserID).Str("mode", req.Mode.String()).Logger()

	hist, err := e.history.GetUserHistory(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history for user %d: %w", ErrUpstream, req.UserID, err)
	}

	ops, cacheStatus, err := e.loadOpportunities(ctx)
	if err != nil {
		return nil, err
	}

	eligible := FilterByLicense(ops, hist)

	var almost []RacingOpportunity
	if req.IncludeAlmostEligible {
		almost = AlmostEligibleOpportunities(ops, hist)
	}

	if req.Category != nil {
		eligible = filterByCategory(eligible, *req.Category)
		almost = filterByCategory(almost, *req.Category)
	}

	statsMap, err := e.resolveStats(ctx, eligible, almost)
	if err != nil {
		return nil, err
	}

	ref := e.now().UTC()
	scored := make([]ScoredOpportunity, 0, len(eligible)+len(almost))
	scored = e.appendScored(scored, eligible, hist, req.Mode, statsMap, ref, false, logger)
	scored = e.appendScored(scored, almost, hist, req.Mode, statsMap, ref, true, logger)

	meta := e.buildMetadata(scored, cacheStatus)

	if req.MinScore > 0 {
		scored = filterByMinScore(scored, req.MinScore)
	}

	sortScored(scored)

	if len(scored) > req.MaxResults {
		scored = scored[:req.MaxResults]
	}

	logger.Info().
		Int("opportunities", meta.TotalOpportunities).
		Int("returned", len(scored)).
		Str("cache_status", cacheStatus).
		Msg("recommendations computed")

	return &RecommendationResponse{
		Recommendations: scored,
		UserProfile: UserProfile{
			UserID:     req.UserID,
			TotalRaces: hist.Overall.TotalRaces,
			Licenses:   hist.Licenses,
		},
		UserHistory: hist,
		Metadata:    meta,
		GeneratedAt: ref,
	}, nil
}

// AnalyzeOpportunity scores a single (series, track) pair for the user,
// independent of license eligibility.
func (e *Engine) AnalyzeOpportunity(ctx context.Context, userID int, seriesID, trackID int, mode Mode) (*ScoredOpportunity, error) {
	req := Request{UserID: userID, Mode: mode, MaxResults: 1}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if seriesID <= 0 || trackID <= 0 {
		return nil, fmt.Errorf("%w: seriesID and trackID must be positive", ErrInvalidRequest)
	}

	ops, _, err := e.loadOpportunities(ctx)
	if err != nil {
		return nil, err
	}

	key := SeriesTrackKey{SeriesID: seriesID, TrackID: trackID}
	var target *RacingOpportunity
	for i := range ops {
		if ops[i].Key() == key {
			target = &ops[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: series %d at track %d not in current schedule", ErrOpportunityNotFound, seriesID, trackID)
	}

	hist, err := e.history.GetUserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history for user %d: %w", ErrUpstream, userID, err)
	}

	statsMap, err := e.batch.GetGlobalStats(ctx, []SeriesTrackKey{key})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	op := *target
	if stats, ok := statsMap[key]; ok {
		op.Global = stats
	}

	score := e.scorer.CalculateScore(&op, hist, mode)
	ref := e.now().UTC()

	return &ScoredOpportunity{
		Opportunity:    op,
		Score:          score,
		AlmostEligible: !HasRequiredLicense(&op, hist),
		NextRace:       e.racetime.NextRaceTime(op.RaceTimes, ref),
		UpcomingSlots:  e.racetime.UpcomingTimeSlots(op.RaceTimes, ref, e.cfg.Horizon),
	}, nil
}

// LicenseProgression reports the user's standing per category with the
// requirements for the next license level.
func (e *Engine) LicenseProgression(ctx context.Context, userID int) ([]LicenseProgression, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive, got %d", ErrInvalidRequest, userID)
	}

	hist, err := e.history.GetUserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history for user %d: %w", ErrUpstream, userID, err)
	}

	return LicenseProgressionSuggestions(hist), nil
}

// InvalidateOpportunities drops the cached opportunity snapshot so the
// next request refetches. Used when the upstream schedule rolls over.
func (e *Engine) InvalidateOpportunities() {
	e.cache.Delete(e.opportunitiesKey())
}

// opportunitiesKey identifies the current ISO week's schedule snapshot.
func (e *Engine) opportunitiesKey() string {
	year, week := e.now().UTC().ISOWeek()
	return fmt.Sprintf("racing-opportunities:%dw%02d", year, week)
}

// loadOpportunities returns the schedule, preferring the cached snapshot.
// The returned status is "hit", "miss", or "disabled".
func (e *Engine) loadOpportunities(ctx context.Context) ([]RacingOpportunity, string, error) {
	key := e.opportunitiesKey()

	if e.cfg.Cache.Enabled {
		if cached, ok := e.cache.Get(key); ok {
			if ops, ok := cached.([]RacingOpportunity); ok {
				return ops, "hit", nil
			}
		}
	}

	ops, err := e.schedule.GetOpportunities(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load opportunities: %w", ErrUpstream, err)
	}

	if !e.cfg.Cache.Enabled {
		return ops, "disabled", nil
	}

	e.cache.SetWithTTL(key, ops, e.cfg.Cache.OpportunitiesTTL)
	return ops, "miss", nil
}

// resolveStats batches global-stats resolution across both opportunity
// sets. A provider failure is an upstream error; absent pairs are not.
func (e *Engine) resolveStats(ctx context.Context, eligible, almost []RacingOpportunity) (map[SeriesTrackKey]GlobalStats, error) {
	pairs := make([]SeriesTrackKey, 0, len(eligible)+len(almost))
	for i := range eligible {
		pairs = append(pairs, eligible[i].Key())
	}
	for i := range almost {
		pairs = append(pairs, almost[i].Key())
	}

	statsMap, err := e.batch.GetGlobalStats(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return statsMap, nil
}

// appendScored scores each opportunity and appends the result. Malformed
// opportunities are logged and skipped rather than failing the request.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) appendScored(dst []ScoredOpportunity, ops []RacingOpportunity, hist *UserHistory, mode Mode, statsMap map[SeriesTrackKey]GlobalStats, ref time.Time, almostEligible bool, logger zerolog.Logger) []ScoredOpportunity {
	for i := range ops {
		op := ops[i]
		if op.SeriesID <= 0 || op.TrackID <= 0 || !op.Category.Valid() {
			logger.Warn().
				Int("series_id", op.SeriesID).
				Int("track_id", op.TrackID).
				Str("category", string(op.Category)).
				Msg("skipping malformed opportunity")
			continue
		}

		if stats, ok := statsMap[op.Key()]; ok {
			op.Global = stats
		}

		dst = append(dst, ScoredOpportunity{
			Opportunity:    op,
			Score:          e.scorer.CalculateScore(&op, hist, mode),
			AlmostEligible: almostEligible,
			NextRace:       e.racetime.NextRaceTime(op.RaceTimes, ref),
		})
	}
	return dst
}

// buildMetadata aggregates confidence counts over all scored candidates
// before minScore filtering and truncation, so data-absence is visible
// even when the affected entries fall out of the final list.
func (e *Engine) buildMetadata(scored []ScoredOpportunity, cacheStatus string) ResponseMetadata {
	meta := ResponseMetadata{
		TotalOpportunities: len(scored),
		CacheStatus:        cacheStatus,
	}
	for i := range scored {
		switch scored[i].Score.DataConfidence[FactorPerformance] {
		case ConfidenceHigh:
			meta.HighConfidenceCount++
		case ConfidenceEstimated:
			meta.EstimatedCount++
		default:
			meta.NoDataCount++
		}
	}
	return meta
}

func filterByCategory(ops []RacingOpportunity, category Category) []RacingOpportunity {
	filtered := make([]RacingOpportunity, 0, len(ops))
	for i := range ops {
		if ops[i].Category == category {
			filtered = append(filtered, ops[i])
		}
	}
	return filtered
}

func filterByMinScore(scored []ScoredOpportunity, minScore int) []ScoredOpportunity {
	filtered := make([]ScoredOpportunity, 0, len(scored))
	for i := range scored {
		if scored[i].Score.Overall >= minScore {
			filtered = append(filtered, scored[i])
		}
	}
	return filtered
}

// sortScored orders by overall score descending, then priority score,
// then familiarity, then series ID ascending as the deterministic
// tie-break.
func sortScored(scored []ScoredOpportunity) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := &scored[i], &scored[j]
		if a.Score.Overall != b.Score.Overall {
			return a.Score.Overall > b.Score.Overall
		}
		if a.Score.PriorityScore != b.Score.PriorityScore {
			return a.Score.PriorityScore > b.Score.PriorityScore
		}
		if a.Score.Factors.Familiarity != b.Score.Factors.Familiarity {
			return a.Score.Factors.Familiarity > b.Score.Factors.Familiarity
		}
		return a.Opportunity.SeriesID < b.Opportunity.SeriesID
	})
}
