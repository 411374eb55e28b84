// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package models holds the raw upstream payload shapes and the parsing
// boundary that converts them into strict engine types. Nothing outside
// this package sees an upstream field name; malformed entries are dropped
// at the boundary with a log line, never propagated.
package models

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/BenGiese22/should-i-race-this/internal/recommend"
)

// ToUserHistory converts a member summary into the engine's history
// snapshot. License entries with an unknown category or level are dropped;
// the history rows pass through unchanged.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (r *MemberSummaryResponse) ToUserHistory(logger zerolog.Logger) *recommend.UserHistory {
	hist := &recommend.UserHistory{
		UserID: r.CustID,
		Overall: recommend.UserOverallStats{
			TotalRaces:          r.CareerStats.TotalRaces,
			AvgIncidentsPerRace: r.CareerStats.AvgIncidents,
			AvgPositionDelta:    r.CareerStats.AvgFinishDelta,
			OverallConsistency:  r.CareerStats.FinishPosStdDev,
		},
	}

	for _, lic := range r.Licenses {
		category := recommend.Category(lic.Category)
		level, ok := recommend.ParseLicenseLevel(lic.LicenseLevel)
		if !category.Valid() || !ok {
			logger.Warn().
				Int("cust_id", r.CustID).
				Str("category", lic.Category).
				Str("license_level", lic.LicenseLevel).
				Msg("dropping unrecognized license entry")
			continue
		}
		hist.Licenses = append(hist.Licenses, recommend.LicenseClass{
			Category:     category,
			Level:        level,
			SafetyRating: lic.SafetyRating,
			IRating:      lic.IRating,
		})
	}

	for _, st := range r.SeriesTrack {
		if st.SeriesID <= 0 || st.TrackID <= 0 || st.RaceCount < 0 {
			logger.Warn().
				Int("cust_id", r.CustID).
				Int("series_id", st.SeriesID).
				Int("track_id", st.TrackID).
				Msg("dropping malformed history row")
			continue
		}
		row := recommend.SeriesTrackHistory{
			SeriesID:             st.SeriesID,
			TrackID:              st.TrackID,
			RaceCount:            st.RaceCount,
			AvgPositionDelta:     st.AvgFinishDelta,
			AvgIncidents:         st.AvgIncidents,
			FinishPositionStdDev: st.FinishPosStdDev,
		}
		if st.LastRacedAt != "" {
			if ts, err := time.Parse(time.RFC3339, st.LastRacedAt); err == nil {
				row.LastRaceDate = ts
			}
		}
		hist.SeriesTrack = append(hist.SeriesTrack, row)
	}

	return hist
}

// ToOpportunities converts the season schedule into racing opportunities.
// Entries with unknown categories or license groups are dropped whole;
// individual malformed descriptors are dropped per entry.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (r *SeasonsResponse) ToOpportunities(logger zerolog.Logger) []recommend.RacingOpportunity {
	ops := make([]recommend.RacingOpportunity, 0, len(r.Seasons))

	for _, s := range r.Seasons {
		category := recommend.Category(s.Category)
		level, ok := recommend.ParseLicenseLevel(s.LicenseGroup)
		if s.SeriesID <= 0 || s.TrackID <= 0 || !category.Valid() || !ok {
			logger.Warn().
				Int("series_id", s.SeriesID).
				Int("track_id", s.TrackID).
				Str("category", s.Category).
				Str("license_group", s.LicenseGroup).
				Msg("dropping malformed season entry")
			continue
		}

		op := recommend.RacingOpportunity{
			SeriesID:          s.SeriesID,
			TrackID:           s.TrackID,
			SeriesName:        s.SeriesName,
			TrackName:         s.TrackName,
			SeasonWeek:        s.RaceWeek,
			LicenseRequired:   level,
			Category:          category,
			RaceLengthMinutes: s.RaceLengthMinutes,
			HasOpenSetup:      !s.FixedSetup,
		}

		for _, d := range s.RaceTimeDescriptors {
			desc, ok := d.toEngine()
			if !ok {
				logger.Warn().
					Int("series_id", s.SeriesID).
					Int("track_id", s.TrackID).
					Bool("repeating", d.Repeating).
					Msg("dropping malformed race time descriptor")
				continue
			}
			op.RaceTimes = append(op.RaceTimes, desc)
		}

		ops = append(ops, op)
	}

	return ops
}

// toEngine splits the upstream's discriminated descriptor into the
// engine's one-shape-only form.
func (d *RaceTimeDescriptor) toEngine() (recommend.RaceTimeDescriptor, bool) {
	if d.Repeating {
		if d.FirstSessionTime == "" || len(d.DayOffset) == 0 {
			return recommend.RaceTimeDescriptor{}, false
		}
		return recommend.RaceTimeDescriptor{
			Repeating: &recommend.RepeatingDescriptor{
				FirstSessionTime: d.FirstSessionTime,
				RepeatMinutes:    d.RepeatMinutes,
				DayOffset:        d.DayOffset,
			},
		}, true
	}

	if len(d.SessionTimes) == 0 {
		return recommend.RaceTimeDescriptor{}, false
	}
	times := make([]time.Time, 0, len(d.SessionTimes))
	for _, raw := range d.SessionTimes {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return recommend.RaceTimeDescriptor{}, false
		}
		times = append(times, ts.UTC())
	}
	return recommend.RaceTimeDescriptor{
		Fixed: &recommend.FixedDescriptor{SessionTimes: times},
	}, true
}

// ToGlobalStats converts the analytics payload into the engine's keyed
// stats map. Rows with non-positive identifiers are dropped.
func (r *PairStatsResponse) ToGlobalStats() map[recommend.SeriesTrackKey]recommend.GlobalStats {
	out := make(map[recommend.SeriesTrackKey]recommend.GlobalStats, len(r.Stats))
	for _, s := range r.Stats {
		if s.SeriesID <= 0 || s.TrackID <= 0 {
			continue
		}
		key := recommend.SeriesTrackKey{SeriesID: s.SeriesID, TrackID: s.TrackID}
		out[key] = recommend.GlobalStats{
			AvgIncidentsPerRace:        s.AvgIncidentsPerRace,
			AvgFinishPositionStdDev:    s.AvgFinishPositionStdDev,
			AvgStrengthOfField:         s.AvgStrengthOfField,
			StrengthOfFieldVariability: s.SOFVariability,
			AttritionRate:              s.AttritionRate,
			AvgRaceLength:              s.AvgRaceLengthMinutes,
		}
	}
	return out
}
