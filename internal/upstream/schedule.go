// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/BenGiese22/should-i-race-this/internal/models"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

// ScheduleClient talks to the iRacing Data API proxy for member history
// and the current season schedule. Safe for concurrent use; each request
// creates its own HTTP request.
type ScheduleClient struct {
	*client
}

// Compile-time interface checks.
var (
	_ recommend.HistoryProvider     = (*ScheduleClient)(nil)
	_ recommend.OpportunityProvider = (*ScheduleClient)(nil)
)

// NewScheduleClient creates a schedule collaborator client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScheduleClient(opts Options, logger zerolog.Logger) *ScheduleClient {
	return &ScheduleClient{client: newClient(opts, "schedule", logger)}
}

// GetUserHistory loads the member summary and adapts it into the engine's
// history snapshot.
func (c *ScheduleClient) GetUserHistory(ctx context.Context, userID int) (*recommend.UserHistory, error) {
	var resp models.MemberSummaryResponse
	query := url.Values{"cust_id": []string{strconv.Itoa(userID)}}
	if err := c.getJSON(ctx, "/data/stats/member_summary", query, &resp); err != nil {
		return nil, err
	}
	return resp.ToUserHistory(c.logger), nil
}

// GetOpportunities loads the current race week's schedule and adapts it
// into racing opportunities. Malformed entries are dropped at the parsing
// boundary.
func (c *ScheduleClient) GetOpportunities(ctx context.Context) ([]recommend.RacingOpportunity, error) {
	var resp models.SeasonsResponse
	if err := c.getJSON(ctx, "/data/series/seasons", url.Values{"current_week": []string{"true"}}, &resp); err != nil {
		return nil, err
	}
	return resp.ToOpportunities(c.logger), nil
}
