// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BenGiese22/should-i-race-this/internal/cache"
	"github.com/BenGiese22/should-i-race-this/internal/logging"
)

// countingStatsProvider records every pair list it is asked to fetch.
type countingStatsProvider struct {
	calls   [][]SeriesTrackKey
	stats   map[SeriesTrackKey]GlobalStats
	failErr error
}

func (p *countingStatsProvider) FetchGlobalStats(_ context.Context, pairs []SeriesTrackKey) (map[SeriesTrackKey]GlobalStats, error) {
	p.calls = append(p.calls, append([]SeriesTrackKey(nil), pairs...))
	if p.failErr != nil {
		return nil, p.failErr
	}

	out := make(map[SeriesTrackKey]GlobalStats, len(pairs))
	for _, pair := range pairs {
		if s, ok := p.stats[pair]; ok {
			out[pair] = s
		}
	}
	return out, nil
}

func newTestBatch(t *testing.T, provider GlobalStatsProvider) (*BatchProcessor, *cache.Cache) {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Close)
	return NewBatchProcessor(c, provider, time.Minute, logging.NewTestLogger(nil)), c
}

func TestGetGlobalStatsDeduplicatesWithinBatch(t *testing.T) {
	a := SeriesTrackKey{SeriesID: 139, TrackID: 266}
	b := SeriesTrackKey{SeriesID: 447, TrackID: 18}

	provider := &countingStatsProvider{stats: map[SeriesTrackKey]GlobalStats{
		a: {AvgIncidentsPerRace: 3.2},
		b: {AvgIncidentsPerRace: 5.1},
	}}
	batch, _ := newTestBatch(t, provider)

	results, err := batch.GetGlobalStats(context.Background(), []SeriesTrackKey{a, b, a, a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if len(provider.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(provider.calls))
	}
	if got := provider.calls[0]; len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("fetch order not first-seen: %+v", got)
	}
}

func TestGetGlobalStatsServesFromCache(t *testing.T) {
	a := SeriesTrackKey{SeriesID: 139, TrackID: 266}

	provider := &countingStatsProvider{stats: map[SeriesTrackKey]GlobalStats{
		a: {StrengthOfFieldVariability: 88},
	}}
	batch, _ := newTestBatch(t, provider)

	if _, err := batch.GetGlobalStats(context.Background(), []SeriesTrackKey{a}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	results, err := batch.GetGlobalStats(context.Background(), []SeriesTrackKey{a})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := results[a].StrengthOfFieldVariability; got != 88 {
		t.Errorf("cached variability = %v, want 88", got)
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider called %d times across two batches, want 1", len(provider.calls))
	}
}

func TestGetGlobalStatsAbsentPairsAreNotErrors(t *testing.T) {
	known := SeriesTrackKey{SeriesID: 139, TrackID: 266}
	unknown := SeriesTrackKey{SeriesID: 999, TrackID: 1}

	provider := &countingStatsProvider{stats: map[SeriesTrackKey]GlobalStats{
		known: {AttritionRate: 0.1},
	}}
	batch, _ := newTestBatch(t, provider)

	results, err := batch.GetGlobalStats(context.Background(), []SeriesTrackKey{known, unknown})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := results[known]; !ok {
		t.Error("known pair missing from results")
	}
	if _, ok := results[unknown]; ok {
		t.Error("unknown pair should be absent, not zero-valued")
	}
}

func TestGetGlobalStatsProviderError(t *testing.T) {
	provider := &countingStatsProvider{failErr: errors.New("stats service down")}
	batch, _ := newTestBatch(t, provider)

	_, err := batch.GetGlobalStats(context.Background(), []SeriesTrackKey{{SeriesID: 1, TrackID: 2}})
	if err == nil {
		t.Fatal("expected an error from a failing provider")
	}
}
