// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package models

// iRacing Data API Models
// These structures represent responses from the iRacing /data REST API
// endpoints as proxied by the schedule collaborator. Field names follow the
// upstream snake_case payloads exactly; conversion into strict engine types
// happens in convert.go, never past this package.

// ============================================================================
// Member Summary Models - GET /data/stats/member_summary
// ============================================================================

// MemberSummaryResponse represents the response from GET /data/stats/member_summary.
// It carries the driver's licenses, account-wide aggregates, and per
// (series, track) history rows.
type MemberSummaryResponse struct {
	CustID      int                `json:"cust_id"`
	DisplayName string             `json:"display_name"`
	Licenses    []MemberLicense    `json:"licenses"`
	CareerStats MemberCareerStats  `json:"career_stats"`
	SeriesTrack []SeriesTrackStats `json:"series_track_stats"`
}

// MemberLicense is one per-category license entry.
type MemberLicense struct {
	Category     string  `json:"category"`      // "oval", "sports_car", ...
	LicenseLevel string  `json:"license_level"` // "rookie", "d", "c", "b", "a", "pro"
	SafetyRating float64 `json:"safety_rating"` // e.g. 3.42
	IRating      int     `json:"irating"`
}

// MemberCareerStats holds account-wide aggregates.
type MemberCareerStats struct {
	TotalRaces      int     `json:"total_races"`
	AvgIncidents    float64 `json:"avg_incidents"`
	AvgFinishDelta  float64 `json:"avg_finish_delta"`   // finish vs start, positive = gained
	FinishPosStdDev float64 `json:"finish_pos_std_dev"` // account-wide finish spread
}

// SeriesTrackStats is one per (series, track) history row.
type SeriesTrackStats struct {
	SeriesID        int     `json:"series_id"`
	TrackID         int     `json:"track_id"`
	RaceCount       int     `json:"race_count"`
	AvgFinishDelta  float64 `json:"avg_finish_delta"`
	AvgIncidents    float64 `json:"avg_incidents"`
	FinishPosStdDev float64 `json:"finish_pos_std_dev"`
	LastRacedAt     string  `json:"last_raced_at,omitempty"` // RFC 3339, informational
}

// ============================================================================
// Season Schedule Models - GET /data/series/seasons
// ============================================================================

// SeasonsResponse represents the response from GET /data/series/seasons
// filtered to the current race week.
type SeasonsResponse struct {
	Seasons []SeasonEntry `json:"seasons"`
}

// SeasonEntry is one series running this week.
type SeasonEntry struct {
	SeriesID            int                  `json:"series_id"`
	SeriesName          string               `json:"series_name"`
	Category            string               `json:"category"`
	LicenseGroup        string               `json:"license_group"` // required license, "rookie".."pro"
	FixedSetup          bool                 `json:"fixed_setup"`
	RaceWeek            int                  `json:"race_week_num"`
	TrackID             int                  `json:"track_id"`
	TrackName           string               `json:"track_name"`
	RaceLengthMinutes   int                  `json:"race_length_minutes"`
	RaceTimeDescriptors []RaceTimeDescriptor `json:"race_time_descriptors"`
}

// RaceTimeDescriptor mirrors the upstream recurrence descriptor. The
// upstream encodes both shapes in one struct discriminated by Repeating;
// convert.go splits them into the engine's one-shape-only form.
type RaceTimeDescriptor struct {
	Repeating        bool     `json:"repeating"`
	FirstSessionTime string   `json:"first_session_time,omitempty"` // "HH:MM:SS" UTC
	RepeatMinutes    int      `json:"repeat_minutes,omitempty"`
	DayOffset        []int    `json:"day_offset,omitempty"`
	SessionTimes     []string `json:"session_times,omitempty"` // RFC 3339 UTC
}
