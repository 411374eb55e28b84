// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"fmt"
	"math"
)

// Scorer converts a (user, opportunity, mode) triple into a Score.
// CalculateScore is a pure function: the same inputs always yield the same
// output, which keeps scores reproducible and opportunities comparable.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer with the given configuration.
func NewScorer(cfg *Config) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// statSource names the data source a factor was resolved from. Sources are
// consulted in a fixed precedence order: exact-pair history, then overall
// account stats, then a neutral default.
type statSource int

const (
	sourceNone statSource = iota
	sourceExactPair
	sourceOverall
)

// resolvedStat is one raw statistic plus the source it came from.
type resolvedStat struct {
	value  float64
	source statSource
}

// neutralScore is the factor value used when no data source applies.
const neutralScore = 50.0

// CalculateScore scores one opportunity for one user in one mode.
// Missing history never fails: absent data degrades confidence and falls
// back to overall or population statistics.
func (s *Scorer) CalculateScore(op *RacingOpportunity, hist *UserHistory, mode Mode) Score {
	exact, hasExact := hist.ExactHistory(op.SeriesID, op.TrackID)
	exactRaces := 0
	if hasExact {
		exactRaces = exact.RaceCount
	}

	factors := FactorScores{
		Familiarity:    s.familiarity(op, hist),
		Performance:    s.curveScore(s.resolveDelta(exact, hasExact, hist), s.performanceCurve),
		Safety:         s.curveScore(s.resolveIncidents(exact, hasExact, hist), s.safetyCurve),
		Consistency:    s.curveScore(s.resolveSpread(exact, hasExact, hist), s.consistencyCurve),
		Predictability: s.predictability(op.Global),
		FatigueRisk:    s.fatigueRisk(op),
		AttritionRisk:  s.attritionRisk(op.Global),
		TimeVolatility: s.timeVolatility(op.Global),
	}

	weights := s.cfg.Weights.For(mode).Normalize()
	overall := clamp(math.Round(
		weights.Performance*factors.Performance +
			weights.Safety*factors.Safety +
			weights.Consistency*factors.Consistency +
			weights.Predictability*factors.Predictability +
			weights.Familiarity*factors.Familiarity +
			weights.FatigueRisk*factors.FatigueRisk +
			weights.AttritionRisk*factors.AttritionRisk +
			weights.TimeVolatility*factors.TimeVolatility))

	personalConf := ConfidenceForRaces(exactRaces)
	globalConf := globalStatsConfidence(op.Global)

	return Score{
		Overall:          int(overall),
		Factors:          factors,
		IRatingRisk:      s.cfg.Risk.Band(factors.Performance),
		SafetyRatingRisk: s.cfg.Risk.Band(factors.Safety),
		Reasoning:        s.reasoning(op, hist, exact, hasExact, &factors, mode),
		DataConfidence: map[string]ConfidenceLevel{
			FactorPerformance:    personalConf,
			FactorSafety:         personalConf,
			FactorConsistency:    personalConf,
			FactorFamiliarity:    personalConf,
			FactorPredictability: globalConf,
			FactorFatigueRisk:    globalConf,
			FactorAttritionRisk:  globalConf,
			FactorTimeVolatility: globalConf,
		},
		GlobalStatsConfidence: globalConf,
		PriorityScore:         factors.Familiarity,
	}
}

// familiarity blends exact-pair, cross-track series and cross-series track
// experience. A user with zero history in all three signals scores exactly 0.
func (s *Scorer) familiarity(op *RacingOpportunity, hist *UserHistory) float64 {
	exactRaces := 0
	if exact, ok := hist.ExactHistory(op.SeriesID, op.TrackID); ok {
		exactRaces = exact.RaceCount
	}

	fam := s.cfg.Familiarity
	total := fam.ExactWeight + fam.SeriesWeight + fam.TrackWeight

	blended := fam.ExactWeight*raceCountScore(exactRaces) +
		fam.SeriesWeight*raceCountScore(hist.SeriesRaceCount(op.SeriesID)) +
		fam.TrackWeight*raceCountScore(hist.TrackRaceCount(op.TrackID))

	return clamp(blended / total)
}

// raceCountScore maps a race count onto 0-100. The curve is increasing and
// satisfies the published thresholds: 5 races reach 60, 10 races reach 80.
func raceCountScore(n int) float64 {
	switch {
	case n <= 0:
		return 0
	case n < 5:
		return float64(n) * 12
	case n < 10:
		return 60 + float64(n-5)*4
	default:
		return math.Min(100, 80+float64(n-10)*2)
	}
}

// resolveDelta resolves the position-delta statistic for the performance
// factor.
func (s *Scorer) resolveDelta(exact SeriesTrackHistory, hasExact bool, hist *UserHistory) resolvedStat {
	if hasExact && exact.RaceCount > 0 {
		return resolvedStat{value: exact.AvgPositionDelta, source: sourceExactPair}
	}
	if hist.Overall.TotalRaces > 0 {
		return resolvedStat{value: hist.Overall.AvgPositionDelta, source: sourceOverall}
	}
	return resolvedStat{source: sourceNone}
}

// resolveIncidents resolves the incident-average statistic for the safety
// factor.
func (s *Scorer) resolveIncidents(exact SeriesTrackHistory, hasExact bool, hist *UserHistory) resolvedStat {
	if hasExact && exact.RaceCount > 0 {
		return resolvedStat{value: exact.AvgIncidents, source: sourceExactPair}
	}
	if hist.Overall.TotalRaces > 0 {
		return resolvedStat{value: hist.Overall.AvgIncidentsPerRace, source: sourceOverall}
	}
	return resolvedStat{source: sourceNone}
}

// resolveSpread resolves the finish-spread statistic for the consistency
// factor.
func (s *Scorer) resolveSpread(exact SeriesTrackHistory, hasExact bool, hist *UserHistory) resolvedStat {
	if hasExact && exact.RaceCount > 0 {
		return resolvedStat{value: exact.FinishPositionStdDev, source: sourceExactPair}
	}
	if hist.Overall.TotalRaces > 0 {
		return resolvedStat{value: hist.Overall.OverallConsistency, source: sourceOverall}
	}
	return resolvedStat{source: sourceNone}
}

// curveScore applies a normalization curve to a resolved statistic,
// defaulting to neutral when no source applied.
func (s *Scorer) curveScore(stat resolvedStat, curve func(float64) float64) float64 {
	if stat.source == sourceNone {
		return neutralScore
	}
	return curve(stat.value)
}

// performanceCurve maps an average position delta onto 0-100. Consistently
// positive deltas trend toward 100, negative toward 0.
func (s *Scorer) performanceCurve(delta float64) float64 {
	return clamp(50 + delta*s.cfg.Curves.PositionDeltaScale)
}

// safetyCurve maps an incident average onto 0-100, lower incidents scoring
// higher.
func (s *Scorer) safetyCurve(incidents float64) float64 {
	return clamp(100 - incidents*s.cfg.Curves.IncidentPenalty)
}

// consistencyCurve maps a finish-position spread onto 0-100, tighter spreads
// scoring higher.
func (s *Scorer) consistencyCurve(spread float64) float64 {
	return clamp(100 - spread*s.cfg.Curves.ConsistencyPenalty)
}

// predictability scores how stable the field strength is, independent of
// the user. Highly variable fields are less predictable for everyone.
func (s *Scorer) predictability(g GlobalStats) float64 {
	return clamp(100 - g.StrengthOfFieldVariability*s.cfg.Curves.SOFVariabilityPenalty/10)
}

// fatigueRisk scores race length: short races score high, long races low.
func (s *Scorer) fatigueRisk(op *RacingOpportunity) float64 {
	length := op.Global.AvgRaceLength
	if length <= 0 {
		length = float64(op.RaceLengthMinutes)
	}
	over := math.Max(0, length-s.cfg.Curves.FatigueBaselineMinutes)
	return clamp(100 - over*s.cfg.Curves.FatiguePenaltyPerMinute)
}

// attritionRisk scores the population DNF rate, lower attrition scoring
// higher.
func (s *Scorer) attritionRisk(g GlobalStats) float64 {
	return clamp(100 - g.AttritionRate*100*s.cfg.Curves.AttritionPenalty)
}

// timeVolatility scores how much session strength swings across time slots.
func (s *Scorer) timeVolatility(g GlobalStats) float64 {
	return clamp(100 - g.StrengthOfFieldVariability*s.cfg.Curves.TimeVolatilityPenalty/10)
}

// reasoning builds the ordered, human-readable explanation list.
func (s *Scorer) reasoning(op *RacingOpportunity, hist *UserHistory, exact SeriesTrackHistory, hasExact bool, factors *FactorScores, mode Mode) []string {
	reasons := make([]string, 0, 6)

	switch {
	case hasExact && exact.RaceCount > 0:
		reasons = append(reasons, fmt.Sprintf(
			"%d race(s) at %s / %s back this score", exact.RaceCount, op.SeriesName, op.TrackName))
	case hist.SeriesRaceCount(op.SeriesID) > 0:
		reasons = append(reasons, fmt.Sprintf(
			"experience in %s at other tracks informs this score", op.SeriesName))
	case hist.TrackRaceCount(op.TrackID) > 0:
		reasons = append(reasons, fmt.Sprintf(
			"experience at %s in other series informs this score", op.TrackName))
	case hist.Overall.TotalRaces > 0:
		reasons = append(reasons, "no history at this combination; scored from account-wide averages")
	default:
		reasons = append(reasons, "no personal history; scored from population statistics")
	}

	if hasExact && exact.RaceCount > 0 {
		switch {
		case exact.AvgPositionDelta > 0:
			reasons = append(reasons, fmt.Sprintf(
				"gaining %.1f positions per race here on average", exact.AvgPositionDelta))
		case exact.AvgPositionDelta < 0:
			reasons = append(reasons, fmt.Sprintf(
				"losing %.1f positions per race here on average", -exact.AvgPositionDelta))
		}
		reasons = append(reasons, fmt.Sprintf(
			"averaging %.1f incidents per race here", exact.AvgIncidents))
	}

	if factors.AttritionRisk < s.cfg.Risk.Moderate {
		reasons = append(reasons, fmt.Sprintf(
			"high attrition: %.0f%% of entrants typically fail to finish", op.Global.AttritionRate*100))
	}
	if factors.Predictability < s.cfg.Risk.Moderate {
		reasons = append(reasons, "field strength swings heavily between sessions")
	}

	switch mode {
	case ModeIRatingPush:
		reasons = append(reasons, "irating_push weighting favors performance and strong fields")
	case ModeSafetyRecovery:
		reasons = append(reasons, "safety_recovery weighting favors incident avoidance")
	case ModeBalanced:
		// Balanced mode needs no weighting note.
	}

	return reasons
}

// globalStatsConfidence grades the population stats backing the
// opportunity-level factors. It is never below estimated.
func globalStatsConfidence(g GlobalStats) ConfidenceLevel {
	if g == (GlobalStats{}) {
		return ConfidenceEstimated
	}
	return ConfidenceHigh
}

// clamp bounds a factor score to [0, 100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
