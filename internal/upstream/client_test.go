// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/BenGiese22/should-i-race-this/internal/logging"
	"github.com/BenGiese22/should-i-race-this/internal/models"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

func TestGetUserHistory(t *testing.T) {
	var gotPath, gotCustID, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCustID = r.URL.Query().Get("cust_id")
		gotAPIKey = r.Header.Get("X-API-Key")

		_ = json.NewEncoder(w).Encode(models.MemberSummaryResponse{
			CustID: 42,
			Licenses: []models.MemberLicense{
				{Category: "sports_car", LicenseLevel: "c", SafetyRating: 3.4, IRating: 2100},
			},
			CareerStats: models.MemberCareerStats{TotalRaces: 250},
		})
	}))
	defer srv.Close()

	c := NewScheduleClient(Options{BaseURL: srv.URL, APIKey: "secret"}, logging.NewTestLogger(nil))

	hist, err := c.GetUserHistory(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserHistory: %v", err)
	}
	if gotPath != "/data/stats/member_summary" {
		t.Errorf("path = %q", gotPath)
	}
	if gotCustID != "42" {
		t.Errorf("cust_id = %q, want 42", gotCustID)
	}
	if gotAPIKey != "secret" {
		t.Errorf("X-API-Key = %q, want secret", gotAPIKey)
	}
	if hist.UserID != 42 || len(hist.Licenses) != 1 || hist.Overall.TotalRaces != 250 {
		t.Errorf("unexpected history: %+v", hist)
	}
}

func TestGetOpportunities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current_week") != "true" {
			t.Errorf("missing current_week filter: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(models.SeasonsResponse{Seasons: []models.SeasonEntry{
			{SeriesID: 139, TrackID: 266, Category: "sports_car", LicenseGroup: "c", RaceLengthMinutes: 25},
		}})
	}))
	defer srv.Close()

	c := NewScheduleClient(Options{BaseURL: srv.URL}, logging.NewTestLogger(nil))

	ops, err := c.GetOpportunities(context.Background())
	if err != nil {
		t.Fatalf("GetOpportunities: %v", err)
	}
	if len(ops) != 1 || ops[0].SeriesID != 139 {
		t.Errorf("unexpected opportunities: %+v", ops)
	}
}

func TestFetchGlobalStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/pair-stats" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req models.PairStatsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Pairs) != 2 {
			t.Errorf("got %d pairs, want 2", len(req.Pairs))
		}

		_ = json.NewEncoder(w).Encode(models.PairStatsResponse{Stats: []models.PairStatsEntry{
			{SeriesID: 139, TrackID: 266, AvgIncidentsPerRace: 4.0},
		}})
	}))
	defer srv.Close()

	c := NewStatsClient(Options{BaseURL: srv.URL}, logging.NewTestLogger(nil))

	pairs := []recommend.SeriesTrackKey{
		{SeriesID: 139, TrackID: 266},
		{SeriesID: 447, TrackID: 18},
	}
	stats, err := c.FetchGlobalStats(context.Background(), pairs)
	if err != nil {
		t.Fatalf("FetchGlobalStats: %v", err)
	}
	// The second pair has no population data; absence is not an error.
	if len(stats) != 1 {
		t.Fatalf("got %d entries, want 1", len(stats))
	}
	if got := stats[pairs[0]].AvgIncidentsPerRace; got != 4.0 {
		t.Errorf("avg incidents = %v, want 4.0", got)
	}
}

func TestNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewScheduleClient(Options{BaseURL: srv.URL}, logging.NewTestLogger(nil))

	_, err := c.GetOpportunities(context.Background())
	if err == nil {
		t.Fatal("expected an error on HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry the body: %v", err)
	}
}

func TestMalformedJSONIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewScheduleClient(Options{BaseURL: srv.URL}, logging.NewTestLogger(nil))

	if _, err := c.GetOpportunities(context.Background()); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewScheduleClient(Options{BaseURL: srv.URL}, logging.NewTestLogger(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.GetUserHistory(ctx, 42); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}
