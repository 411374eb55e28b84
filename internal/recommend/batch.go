// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BenGiese22/should-i-race-this/internal/cache"
)

// GlobalStatsProvider fetches population-level statistics for (series,
// track) pairs. Implemented by the analytics collaborator; the batch
// processor never retries its failures.
type GlobalStatsProvider interface {
	// FetchGlobalStats returns stats for the requested pairs. Pairs with
	// no population data may be absent from the result; that is a
	// data-absence condition, not an error.
	FetchGlobalStats(ctx context.Context, pairs []SeriesTrackKey) (map[SeriesTrackKey]GlobalStats, error)
}

// BatchProcessor deduplicates and groups global-stats lookups so that
// scoring P opportunities referencing the same few hundred pairs costs
// O(unique pairs) fetches instead of O(P). Each request runs its own batch;
// duplication across concurrent requests is acceptable, duplication within
// one batch is not.
type BatchProcessor struct {
	cache    *cache.Cache
	provider GlobalStatsProvider
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewBatchProcessor creates a batch processor backed by the given cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBatchProcessor(c *cache.Cache, provider GlobalStatsProvider, ttl time.Duration, logger zerolog.Logger) *BatchProcessor {
	return &BatchProcessor{
		cache:    c,
		provider: provider,
		ttl:      ttl,
		logger:   logger.With().Str("component", "batch").Logger(),
	}
}

// globalStatsKey builds the deterministic cache key for one pair.
func globalStatsKey(pair SeriesTrackKey) string {
	return fmt.Sprintf("global-stats:%d:%d", pair.SeriesID, pair.TrackID)
}

// GetGlobalStats resolves stats for every unique pair in the input,
// consulting the cache first and fetching the misses in a single provider
// call. Every duplicate in the input receives the same value. Pairs the
// provider cannot serve are simply absent from the result.
func (b *BatchProcessor) GetGlobalStats(ctx context.Context, pairs []SeriesTrackKey) (map[SeriesTrackKey]GlobalStats, error) {
	unique := dedupePairs(pairs)
	results := make(map[SeriesTrackKey]GlobalStats, len(unique))

	var missing []SeriesTrackKey
	for _, pair := range unique {
		if cached, ok := b.cache.Get(globalStatsKey(pair)); ok {
			if stats, ok := cached.(GlobalStats); ok {
				results[pair] = stats
				continue
			}
		}
		missing = append(missing, pair)
	}

	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := b.provider.FetchGlobalStats(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("fetch global stats for %d pairs: %w", len(missing), err)
	}

	for pair, stats := range fetched {
		results[pair] = stats
		b.cache.SetWithTTL(globalStatsKey(pair), stats, b.ttl)
	}

	b.logger.Debug().
		Int("requested", len(pairs)).
		Int("unique", len(unique)).
		Int("fetched", len(missing)).
		Msg("resolved global stats batch")

	return results, nil
}

// dedupePairs removes duplicate pairs preserving first-seen order.
func dedupePairs(pairs []SeriesTrackKey) []SeriesTrackKey {
	seen := make(map[SeriesTrackKey]struct{}, len(pairs))
	unique := make([]SeriesTrackKey, 0, len(pairs))

	for _, pair := range pairs {
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		unique = append(unique, pair)
	}

	return unique
}
