// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package models

// Analytics Service Models
// These structures represent the population-statistics collaborator's
// POST /v1/pair-stats endpoint.

// PairStatsRequest asks for population stats for a batch of
// (series, track) pairs.
type PairStatsRequest struct {
	Pairs []PairKey `json:"pairs"`
}

// PairKey identifies one (series, track) pair.
type PairKey struct {
	SeriesID int `json:"series_id"`
	TrackID  int `json:"track_id"`
}

// PairStatsResponse carries one entry per pair the collaborator has data
// for. Requested pairs without population data are simply absent.
type PairStatsResponse struct {
	Stats []PairStatsEntry `json:"stats"`
}

// PairStatsEntry is the population aggregate for one pair.
type PairStatsEntry struct {
	SeriesID                int     `json:"series_id"`
	TrackID                 int     `json:"track_id"`
	AvgIncidentsPerRace     float64 `json:"avg_incidents_per_race"`
	AvgFinishPositionStdDev float64 `json:"avg_finish_position_std_dev"`
	AvgStrengthOfField      float64 `json:"avg_strength_of_field"`
	SOFVariability          float64 `json:"sof_variability"`
	AttritionRate           float64 `json:"attrition_rate"`
	AvgRaceLengthMinutes    float64 `json:"avg_race_length_minutes"`
}
