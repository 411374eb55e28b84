// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"time"
)

// LicenseLevel is an iRacing driver competency tier. Levels are totally
// ordered by rank; comparisons must always use Rank, never string equality.
type LicenseLevel int

const (
	// LicenseRookie is the entry-level license.
	LicenseRookie LicenseLevel = iota
	// LicenseD is the D class license.
	LicenseD
	// LicenseC is the C class license.
	LicenseC
	// LicenseB is the B class license.
	LicenseB
	// LicenseA is the A class license.
	LicenseA
	// LicensePro is the highest license tier.
	LicensePro
)

// Rank returns the numeric rank (0-5) used for all ordering comparisons.
func (l LicenseLevel) Rank() int {
	return int(l)
}

// Valid reports whether the level is within the known range.
func (l LicenseLevel) Valid() bool {
	return l >= LicenseRookie && l <= LicensePro
}

// String returns a human-readable name for the license level.
func (l LicenseLevel) String() string {
	switch l {
	case LicenseRookie:
		return "Rookie"
	case LicenseD:
		return "D"
	case LicenseC:
		return "C"
	case LicenseB:
		return "B"
	case LicenseA:
		return "A"
	case LicensePro:
		return "Pro"
	default:
		return "unknown"
	}
}

// ParseLicenseLevel converts a license name to its level.
func ParseLicenseLevel(s string) (LicenseLevel, bool) {
	switch s {
	case "Rookie", "rookie", "R":
		return LicenseRookie, true
	case "D", "d":
		return LicenseD, true
	case "C", "c":
		return LicenseC, true
	case "B", "b":
		return LicenseB, true
	case "A", "a":
		return LicenseA, true
	case "Pro", "pro", "P":
		return LicensePro, true
	default:
		return LicenseRookie, false
	}
}

// Category is a racing discipline. Licenses are held per category.
type Category string

const (
	// CategoryOval is paved oval racing.
	CategoryOval Category = "oval"
	// CategorySportsCar is paved road racing in sports cars.
	CategorySportsCar Category = "sports_car"
	// CategoryFormulaCar is paved road racing in formula cars.
	CategoryFormulaCar Category = "formula_car"
	// CategoryDirtOval is dirt oval racing.
	CategoryDirtOval Category = "dirt_oval"
	// CategoryDirtRoad is dirt road racing.
	CategoryDirtRoad Category = "dirt_road"
)

// Categories lists every known category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryOval,
		CategorySportsCar,
		CategoryFormulaCar,
		CategoryDirtOval,
		CategoryDirtRoad,
	}
}

// Valid reports whether the category is one of the known disciplines.
func (c Category) Valid() bool {
	switch c {
	case CategoryOval, CategorySportsCar, CategoryFormulaCar, CategoryDirtOval, CategoryDirtRoad:
		return true
	default:
		return false
	}
}

// Mode specifies the recommendation goal the driver stated.
type Mode int

const (
	// ModeBalanced weighs performance, safety and consistency roughly equally.
	ModeBalanced Mode = iota
	// ModeIRatingPush favors performance and strong fields over incident risk.
	ModeIRatingPush
	// ModeSafetyRecovery favors incident avoidance over finishing position.
	ModeSafetyRecovery
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeBalanced:
		return "balanced"
	case ModeIRatingPush:
		return "irating_push"
	case ModeSafetyRecovery:
		return "safety_recovery"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to its Mode value.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "balanced":
		return ModeBalanced, true
	case "irating_push":
		return ModeIRatingPush, true
	case "safety_recovery":
		return ModeSafetyRecovery, true
	default:
		return ModeBalanced, false
	}
}

// ConfidenceLevel indicates how much personal history backs a score factor.
// It is derived from race counts at scoring time and never persisted.
type ConfidenceLevel string

const (
	// ConfidenceHigh means three or more races back the factor.
	ConfidenceHigh ConfidenceLevel = "high"
	// ConfidenceEstimated means at least one race backs the factor.
	ConfidenceEstimated ConfidenceLevel = "estimated"
	// ConfidenceNoData means no personal history backs the factor.
	ConfidenceNoData ConfidenceLevel = "no_data"
)

// ConfidenceForRaces maps a race count to a confidence level.
func ConfidenceForRaces(raceCount int) ConfidenceLevel {
	switch {
	case raceCount >= 3:
		return ConfidenceHigh
	case raceCount >= 1:
		return ConfidenceEstimated
	default:
		return ConfidenceNoData
	}
}

// RiskLevel is a qualitative band for rating exposure.
type RiskLevel string

const (
	// RiskLow indicates the opportunity is unlikely to hurt the rating.
	RiskLow RiskLevel = "low"
	// RiskModerate indicates some rating exposure.
	RiskModerate RiskLevel = "moderate"
	// RiskHigh indicates significant rating exposure.
	RiskHigh RiskLevel = "high"
)

// SetupType distinguishes fixed-setup and open-setup events.
type SetupType string

const (
	// SetupFixed matches only fixed-setup events.
	SetupFixed SetupType = "fixed"
	// SetupOpen matches only open-setup events.
	SetupOpen SetupType = "open"
	// SetupAny matches both setup types.
	SetupAny SetupType = "any"
)

// LicenseClass is a license a user holds in one category.
// Superseded in place on sync, not versioned.
type LicenseClass struct {
	// Category is the discipline the license applies to.
	Category Category `json:"category"`

	// Level is the license tier.
	Level LicenseLevel `json:"level"`

	// SafetyRating is the incident-avoidance score (e.g. 3.42).
	SafetyRating float64 `json:"safety_rating"`

	// IRating is the relative-skill rating within the category.
	IRating int `json:"irating"`
}

// SeriesTrackHistory aggregates a user's past races at one (series, track)
// pair. It is an immutable snapshot derived from raw race results.
type SeriesTrackHistory struct {
	// SeriesID identifies the series.
	SeriesID int `json:"series_id"`

	// TrackID identifies the track.
	TrackID int `json:"track_id"`

	// RaceCount is the number of races in this pair.
	RaceCount int `json:"race_count"`

	// AvgPositionDelta is starting minus finishing position.
	// Positive means places gained.
	AvgPositionDelta float64 `json:"avg_position_delta"`

	// AvgIncidents is the mean incident count per race.
	AvgIncidents float64 `json:"avg_incidents"`

	// FinishPositionStdDev is the standard deviation of finish positions.
	FinishPositionStdDev float64 `json:"finish_position_std_dev"`

	// LastRaceDate is when the user last raced this pair.
	LastRaceDate time.Time `json:"last_race_date"`
}

// UserOverallStats holds account-wide aggregates used as a fallback when
// series/track-specific data is thin.
type UserOverallStats struct {
	// TotalRaces is the account-wide race count.
	TotalRaces int `json:"total_races"`

	// AvgIncidentsPerRace is the account-wide incident average.
	AvgIncidentsPerRace float64 `json:"avg_incidents_per_race"`

	// AvgPositionDelta is the account-wide position delta average.
	AvgPositionDelta float64 `json:"avg_position_delta"`

	// OverallConsistency is the account-wide finish position spread.
	OverallConsistency float64 `json:"overall_consistency"`
}

// UserHistory is the unit of input to scoring and filtering.
type UserHistory struct {
	// UserID identifies the driver.
	UserID int `json:"user_id"`

	// SeriesTrack holds per-pair aggregates.
	SeriesTrack []SeriesTrackHistory `json:"series_track"`

	// Overall holds account-wide aggregates.
	Overall UserOverallStats `json:"overall"`

	// Licenses holds the user's license classes, at most one per
	// category in well-formed data (duplicates are tolerated).
	Licenses []LicenseClass `json:"licenses"`
}

// ExactHistory returns the aggregate for the exact (series, track) pair.
func (h *UserHistory) ExactHistory(seriesID, trackID int) (SeriesTrackHistory, bool) {
	for _, st := range h.SeriesTrack {
		if st.SeriesID == seriesID && st.TrackID == trackID {
			return st, true
		}
	}
	return SeriesTrackHistory{}, false
}

// SeriesRaceCount returns the total races in a series across all tracks.
func (h *UserHistory) SeriesRaceCount(seriesID int) int {
	total := 0
	for _, st := range h.SeriesTrack {
		if st.SeriesID == seriesID {
			total += st.RaceCount
		}
	}
	return total
}

// TrackRaceCount returns the total races at a track across all series.
func (h *UserHistory) TrackRaceCount(trackID int) int {
	total := 0
	for _, st := range h.SeriesTrack {
		if st.TrackID == trackID {
			total += st.RaceCount
		}
	}
	return total
}

// TimeSlot is one scheduled race session of an opportunity.
type TimeSlot struct {
	// Hour is the session start hour (0-23, UTC).
	Hour int `json:"hour"`

	// DayOfWeek is the session day (0=Sunday, 6=Saturday).
	DayOfWeek int `json:"day_of_week"`

	// StrengthOfField is the typical SOF for this slot.
	StrengthOfField float64 `json:"strength_of_field"`

	// ParticipantCount is the typical entry count.
	ParticipantCount int `json:"participant_count"`
}

// GlobalStats holds population-level aggregates for a (series, track) pair.
type GlobalStats struct {
	// AvgIncidentsPerRace is the population incident average.
	AvgIncidentsPerRace float64 `json:"avg_incidents_per_race"`

	// AvgFinishPositionStdDev is the population finish spread.
	AvgFinishPositionStdDev float64 `json:"avg_finish_position_std_dev"`

	// AvgStrengthOfField is the mean SOF across sessions.
	AvgStrengthOfField float64 `json:"avg_strength_of_field"`

	// StrengthOfFieldVariability is the SOF spread across sessions.
	StrengthOfFieldVariability float64 `json:"strength_of_field_variability"`

	// AttritionRate is the fraction of entrants who fail to finish (0-1).
	AttritionRate float64 `json:"attrition_rate"`

	// AvgRaceLength is the mean race length in minutes.
	AvgRaceLength float64 `json:"avg_race_length"`
}

// RepeatingDescriptor describes sessions recurring at a fixed interval on
// given weekdays.
type RepeatingDescriptor struct {
	// FirstSessionTime is the first session of the day, "HH:MM:SS" UTC.
	FirstSessionTime string `json:"first_session_time"`

	// RepeatMinutes is the interval between sessions. Zero or negative
	// means a single session per day at FirstSessionTime.
	RepeatMinutes int `json:"repeat_minutes"`

	// DayOffset is the set of weekdays the descriptor applies to
	// (0=Sunday through 6=Saturday).
	DayOffset []int `json:"day_offset"`
}

// FixedDescriptor describes sessions at absolute timestamps.
type FixedDescriptor struct {
	// SessionTimes are the absolute session start times.
	SessionTimes []time.Time `json:"session_times"`
}

// RaceTimeDescriptor is a compact recurrence descriptor. Exactly one of
// Repeating or Fixed is populated; a descriptor with neither or both is an
// invariant violation and is skipped by the calculator.
type RaceTimeDescriptor struct {
	Repeating *RepeatingDescriptor `json:"repeating,omitempty"`
	Fixed     *FixedDescriptor     `json:"fixed,omitempty"`
}

// RacingOpportunity is a schedulable (series, track, season week).
// Effectively immutable for the duration of a scoring pass.
type RacingOpportunity struct {
	// SeriesID identifies the series.
	SeriesID int `json:"series_id"`

	// TrackID identifies the track.
	TrackID int `json:"track_id"`

	// SeriesName is the display name of the series.
	SeriesName string `json:"series_name"`

	// TrackName is the display name of the track.
	TrackName string `json:"track_name"`

	// SeasonWeek is the iRacing season week number.
	SeasonWeek int `json:"season_week"`

	// LicenseRequired is the minimum license level to enter.
	LicenseRequired LicenseLevel `json:"license_required"`

	// Category is the discipline of the series.
	Category Category `json:"category"`

	// RaceLengthMinutes is the scheduled race length.
	RaceLengthMinutes int `json:"race_length_minutes"`

	// HasOpenSetup reports whether the event runs open setups.
	HasOpenSetup bool `json:"has_open_setup"`

	// TimeSlots are known sessions for display and analysis.
	TimeSlots []TimeSlot `json:"time_slots"`

	// Global holds population-level stats for this pair. Populated by
	// the batch processor before scoring; the zero value means unknown.
	Global GlobalStats `json:"global_stats"`

	// RaceTimes are the recurrence descriptors from the upstream
	// schedule provider, passed through the parsing boundary as-is.
	RaceTimes []RaceTimeDescriptor `json:"race_times"`
}

// Key returns the (series, track) pair key of the opportunity.
func (o *RacingOpportunity) Key() SeriesTrackKey {
	return SeriesTrackKey{SeriesID: o.SeriesID, TrackID: o.TrackID}
}

// Factor names used in Score.Factors and Score.DataConfidence.
const (
	FactorPerformance    = "performance"
	FactorSafety         = "safety"
	FactorConsistency    = "consistency"
	FactorPredictability = "predictability"
	FactorFamiliarity    = "familiarity"
	FactorFatigueRisk    = "fatigueRisk"
	FactorAttritionRisk  = "attritionRisk"
	FactorTimeVolatility = "timeVolatility"
)

// FactorScores holds the eight score factors, each 0-100 with higher
// meaning more favorable.
type FactorScores struct {
	Performance    float64 `json:"performance"`
	Safety         float64 `json:"safety"`
	Consistency    float64 `json:"consistency"`
	Predictability float64 `json:"predictability"`
	Familiarity    float64 `json:"familiarity"`
	FatigueRisk    float64 `json:"fatigueRisk"`
	AttritionRisk  float64 `json:"attritionRisk"`
	TimeVolatility float64 `json:"timeVolatility"`
}

// ToMap returns the factors as a name-keyed map.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (f FactorScores) ToMap() map[string]float64 {
	return map[string]float64{
		FactorPerformance:    f.Performance,
		FactorSafety:         f.Safety,
		FactorConsistency:    f.Consistency,
		FactorPredictability: f.Predictability,
		FactorFamiliarity:    f.Familiarity,
		FactorFatigueRisk:    f.FatigueRisk,
		FactorAttritionRisk:  f.AttritionRisk,
		FactorTimeVolatility: f.TimeVolatility,
	}
}

// Score is the result of scoring one opportunity for one user in one mode.
type Score struct {
	// Overall is the weighted combination of factors, 0-100.
	Overall int `json:"overall"`

	// Factors is the per-factor breakdown.
	Factors FactorScores `json:"factors"`

	// IRatingRisk bands the rating exposure off the performance factor.
	IRatingRisk RiskLevel `json:"irating_risk"`

	// SafetyRatingRisk bands the SR exposure off the safety factor.
	SafetyRatingRisk RiskLevel `json:"safety_rating_risk"`

	// Reasoning is an ordered list of human-readable explanations.
	Reasoning []string `json:"reasoning"`

	// DataConfidence maps each factor to the confidence of the data
	// source that produced it.
	DataConfidence map[string]ConfidenceLevel `json:"data_confidence"`

	// GlobalStatsConfidence is the confidence of the population stats,
	// always at least estimated.
	GlobalStatsConfidence ConfidenceLevel `json:"global_stats_confidence"`

	// PriorityScore breaks ties between equal overall scores.
	// Currently mirrors the familiarity factor.
	PriorityScore float64 `json:"priority_score"`
}

// NextRace is the nearest future occurrence of an opportunity.
type NextRace struct {
	// NextRaceTime is the session start instant.
	NextRaceTime time.Time `json:"next_race_time"`

	// IsRepeating reports whether a repeating descriptor produced it.
	IsRepeating bool `json:"is_repeating"`

	// RepeatMinutes is the repeat interval when IsRepeating is true.
	RepeatMinutes int `json:"repeat_minutes,omitempty"`
}

// ScoredOpportunity pairs an opportunity with its score for responses.
type ScoredOpportunity struct {
	// Opportunity is the scored opportunity.
	Opportunity RacingOpportunity `json:"opportunity"`

	// Score is the computed score.
	Score Score `json:"score"`

	// AlmostEligible flags opportunities one license rank above the
	// user, included only on request.
	AlmostEligible bool `json:"almost_eligible,omitempty"`

	// NextRace is the nearest future session, nil when the schedule is
	// exhausted (e.g. a discontinued series).
	NextRace *NextRace `json:"next_race,omitempty"`

	// UpcomingSlots lists every session start within the configured
	// horizon, ascending. Populated on single-opportunity analysis only;
	// the ranked list carries just NextRace.
	UpcomingSlots []time.Time `json:"upcoming_slots,omitempty"`
}

// Request is a recommendation request. Validation happens before any
// scoring work; invalid values are a caller error, never clamped.
type Request struct {
	// UserID is the driver to recommend for.
	UserID int `json:"user_id" validate:"required,gt=0"`

	// Mode is the stated goal.
	Mode Mode `json:"mode" validate:"min=0,max=2"`

	// Category optionally restricts results to one discipline.
	Category *Category `json:"category,omitempty"`

	// MinScore drops recommendations below this overall score.
	MinScore int `json:"min_score" validate:"min=0,max=100"`

	// MaxResults truncates the recommendation list.
	MaxResults int `json:"max_results" validate:"min=1,max=100"`

	// IncludeAlmostEligible merges in flagged almost-eligible
	// opportunities.
	IncludeAlmostEligible bool `json:"include_almost_eligible"`
}

// UserProfile summarizes the user for the response envelope.
type UserProfile struct {
	// UserID identifies the driver.
	UserID int `json:"user_id"`

	// TotalRaces is the account-wide race count.
	TotalRaces int `json:"total_races"`

	// Licenses echoes the user's license classes.
	Licenses []LicenseClass `json:"licenses"`
}

// ResponseMetadata carries aggregate diagnostics for a recommendation pass.
type ResponseMetadata struct {
	// TotalOpportunities is the number of opportunities considered
	// after license filtering.
	TotalOpportunities int `json:"total_opportunities"`

	// HighConfidenceCount counts recommendations backed by three or
	// more races at the exact pair.
	HighConfidenceCount int `json:"high_confidence_count"`

	// EstimatedCount counts recommendations backed by some history.
	EstimatedCount int `json:"estimated_count"`

	// NoDataCount counts recommendations with no personal history.
	NoDataCount int `json:"no_data_count"`

	// CacheStatus reports whether the opportunity snapshot came from
	// cache ("hit") or the provider ("miss").
	CacheStatus string `json:"cache_status"`
}

// RecommendationResponse is the full result of GetFilteredRecommendations.
type RecommendationResponse struct {
	// Recommendations is the sorted, truncated recommendation list.
	Recommendations []ScoredOpportunity `json:"recommendations"`

	// UserProfile summarizes the driver.
	UserProfile UserProfile `json:"user_profile"`

	// UserHistory echoes the history snapshot used for scoring.
	UserHistory *UserHistory `json:"user_history"`

	// Metadata carries aggregate diagnostics.
	Metadata ResponseMetadata `json:"metadata"`

	// GeneratedAt is the UTC reference instant used for race time
	// projection and scoring.
	GeneratedAt time.Time `json:"generated_at"`
}

// LicenseProgression is one per-category license advancement suggestion.
type LicenseProgression struct {
	// Category is the discipline the suggestion applies to.
	Category Category `json:"category"`

	// CurrentLevel is the user's license level in the category.
	CurrentLevel LicenseLevel `json:"current_level"`

	// NextLevel is the next tier, nil when already at Pro.
	NextLevel *LicenseLevel `json:"next_level,omitempty"`

	// Requirement is a static description of what advancement takes.
	Requirement string `json:"requirement"`
}

// SeriesTrackKey identifies a (series, track) pair for batching and caching.
type SeriesTrackKey struct {
	SeriesID int `json:"series_id"`
	TrackID  int `json:"track_id"`
}
