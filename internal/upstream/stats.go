// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package upstream

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BenGiese22/should-i-race-this/internal/models"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

// StatsClient talks to the analytics collaborator for population-level
// (series, track) statistics.
type StatsClient struct {
	*client
}

var _ recommend.GlobalStatsProvider = (*StatsClient)(nil)

// NewStatsClient creates an analytics collaborator client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStatsClient(opts Options, logger zerolog.Logger) *StatsClient {
	return &StatsClient{client: newClient(opts, "stats", logger)}
}

// FetchGlobalStats resolves population stats for the given pairs in one
// request. Pairs the collaborator has no data for are absent from the
// result, which the engine treats as reduced confidence.
func (c *StatsClient) FetchGlobalStats(ctx context.Context, pairs []recommend.SeriesTrackKey) (map[recommend.SeriesTrackKey]recommend.GlobalStats, error) {
	req := models.PairStatsRequest{Pairs: make([]models.PairKey, 0, len(pairs))}
	for _, pair := range pairs {
		req.Pairs = append(req.Pairs, models.PairKey{SeriesID: pair.SeriesID, TrackID: pair.TrackID})
	}

	var resp models.PairStatsResponse
	if err := c.postJSON(ctx, "/v1/pair-stats", req, &resp); err != nil {
		return nil, err
	}
	return resp.ToGlobalStats(), nil
}
