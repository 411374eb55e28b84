// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package models

import (
	"testing"
	"time"

	"github.com/BenGiese22/should-i-race-this/internal/logging"
	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

func TestToUserHistoryDropsBadEntries(t *testing.T) {
	resp := &MemberSummaryResponse{
		CustID:      42,
		DisplayName: "Test Driver",
		Licenses: []MemberLicense{
			{Category: "sports_car", LicenseLevel: "c", SafetyRating: 3.4, IRating: 2100},
			{Category: "rallycross", LicenseLevel: "c"}, // unknown category
			{Category: "oval", LicenseLevel: "s"},       // unknown level
		},
		CareerStats: MemberCareerStats{
			TotalRaces:      250,
			AvgIncidents:    3.2,
			AvgFinishDelta:  0.8,
			FinishPosStdDev: 4.1,
		},
		SeriesTrack: []SeriesTrackStats{
			{SeriesID: 139, TrackID: 266, RaceCount: 8, AvgFinishDelta: 2.0, LastRacedAt: "2026-08-10T20:00:00Z"},
			{SeriesID: 0, TrackID: 266, RaceCount: 3},   // bad series
			{SeriesID: 139, TrackID: 18, RaceCount: -1}, // negative count
			{SeriesID: 447, TrackID: 18, RaceCount: 2, LastRacedAt: "not-a-date"},
		},
	}

	hist := resp.ToUserHistory(logging.NewTestLogger(nil))

	if hist.UserID != 42 {
		t.Errorf("user ID = %d, want 42", hist.UserID)
	}
	if len(hist.Licenses) != 1 {
		t.Fatalf("got %d licenses, want 1", len(hist.Licenses))
	}
	if hist.Licenses[0].Level != recommend.LicenseC || hist.Licenses[0].IRating != 2100 {
		t.Errorf("unexpected license: %+v", hist.Licenses[0])
	}

	if len(hist.SeriesTrack) != 2 {
		t.Fatalf("got %d history rows, want 2", len(hist.SeriesTrack))
	}
	want := time.Date(2026, time.August, 10, 20, 0, 0, 0, time.UTC)
	if !hist.SeriesTrack[0].LastRaceDate.Equal(want) {
		t.Errorf("last race date = %v, want %v", hist.SeriesTrack[0].LastRaceDate, want)
	}
	// Unparseable timestamp drops the date, not the row.
	if !hist.SeriesTrack[1].LastRaceDate.IsZero() {
		t.Errorf("bad timestamp should leave a zero date, got %v", hist.SeriesTrack[1].LastRaceDate)
	}

	if hist.Overall.TotalRaces != 250 || hist.Overall.OverallConsistency != 4.1 {
		t.Errorf("unexpected overall stats: %+v", hist.Overall)
	}
}

func TestToOpportunities(t *testing.T) {
	resp := &SeasonsResponse{Seasons: []SeasonEntry{
		{
			SeriesID: 139, SeriesName: "GT3 Challenge",
			Category: "sports_car", LicenseGroup: "c",
			FixedSetup: true, RaceWeek: 8,
			TrackID: 266, TrackName: "Spa", RaceLengthMinutes: 25,
			RaceTimeDescriptors: []RaceTimeDescriptor{
				{Repeating: true, FirstSessionTime: "00:15:00", RepeatMinutes: 120, DayOffset: []int{0, 1, 2, 3, 4, 5, 6}},
			},
		},
		{SeriesID: 0, Category: "sports_car", LicenseGroup: "c", TrackID: 1}, // bad series
		{SeriesID: 7, Category: "karting", LicenseGroup: "c", TrackID: 1},    // bad category
		{SeriesID: 8, Category: "oval", LicenseGroup: "legend", TrackID: 1},  // bad license group
	}}

	ops := resp.ToOpportunities(logging.NewTestLogger(nil))

	if len(ops) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(ops))
	}
	op := ops[0]
	if op.LicenseRequired != recommend.LicenseC || op.Category != recommend.CategorySportsCar {
		t.Errorf("unexpected conversion: %+v", op)
	}
	if op.HasOpenSetup {
		t.Error("fixed_setup=true must convert to HasOpenSetup=false")
	}
	if op.SeasonWeek != 8 {
		t.Errorf("season week = %d, want 8", op.SeasonWeek)
	}
	if len(op.RaceTimes) != 1 || op.RaceTimes[0].Repeating == nil {
		t.Fatalf("unexpected race times: %+v", op.RaceTimes)
	}
}

func TestDescriptorShapeSplit(t *testing.T) {
	tests := []struct {
		name string
		in   RaceTimeDescriptor
		ok   bool
	}{
		{
			"repeating",
			RaceTimeDescriptor{Repeating: true, FirstSessionTime: "12:00:00", RepeatMinutes: 60, DayOffset: []int{6}},
			true,
		},
		{
			"repeating without first session",
			RaceTimeDescriptor{Repeating: true, RepeatMinutes: 60, DayOffset: []int{6}},
			false,
		},
		{
			"repeating without days",
			RaceTimeDescriptor{Repeating: true, FirstSessionTime: "12:00:00"},
			false,
		},
		{
			"fixed",
			RaceTimeDescriptor{SessionTimes: []string{"2026-08-22T18:00:00Z"}},
			true,
		},
		{
			"fixed with empty times",
			RaceTimeDescriptor{},
			false,
		},
		{
			"fixed with bad timestamp",
			RaceTimeDescriptor{SessionTimes: []string{"2026-08-22T18:00:00Z", "yesterday"}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, ok := tt.in.toEngine()
			if ok != tt.ok {
				t.Fatalf("toEngine ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			// Exactly one shape must be populated.
			if (desc.Repeating != nil) == (desc.Fixed != nil) {
				t.Errorf("descriptor must carry exactly one shape: %+v", desc)
			}
		})
	}
}

func TestToGlobalStats(t *testing.T) {
	resp := &PairStatsResponse{Stats: []PairStatsEntry{
		{SeriesID: 139, TrackID: 266, AvgIncidentsPerRace: 4.2, SOFVariability: 150, AttritionRate: 0.15},
		{SeriesID: 0, TrackID: 266}, // dropped
	}}

	stats := resp.ToGlobalStats()
	if len(stats) != 1 {
		t.Fatalf("got %d entries, want 1", len(stats))
	}

	key := recommend.SeriesTrackKey{SeriesID: 139, TrackID: 266}
	got, ok := stats[key]
	if !ok {
		t.Fatal("expected the valid pair to be present")
	}
	if got.StrengthOfFieldVariability != 150 || got.AttritionRate != 0.15 {
		t.Errorf("unexpected stats: %+v", got)
	}
}
