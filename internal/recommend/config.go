// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tunable parameters of the recommendation engine.
// The numeric values are implementation choices; only the monotonic
// orderings they produce are contractual.
type Config struct {
	// Weights holds the per-mode factor weight tables.
	Weights ModeWeights `json:"weights"`

	// Familiarity holds the familiarity blend parameters.
	Familiarity FamiliarityConfig `json:"familiarity"`

	// Curves holds the factor normalization curve parameters.
	Curves CurveConfig `json:"curves"`

	// Risk holds the risk band cut points.
	Risk RiskBands `json:"risk"`

	// Cache holds caching parameters.
	Cache CacheConfig `json:"cache"`

	// Horizon is the time-slot generation horizon.
	// Default: 168h (7 days).
	Horizon time.Duration `json:"horizon"`
}

// FactorWeights is one mode's weight table over the eight factors.
// Weights are normalized at runtime, so they don't need to sum to 1.0.
type FactorWeights struct {
	Performance    float64 `json:"performance"`
	Safety         float64 `json:"safety"`
	Consistency    float64 `json:"consistency"`
	Predictability float64 `json:"predictability"`
	Familiarity    float64 `json:"familiarity"`
	FatigueRisk    float64 `json:"fatigue_risk"`
	AttritionRisk  float64 `json:"attrition_risk"`
	TimeVolatility float64 `json:"time_volatility"`
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w FactorWeights) Sum() float64 {
	return w.Performance + w.Safety + w.Consistency + w.Predictability +
		w.Familiarity + w.FatigueRisk + w.AttritionRisk + w.TimeVolatility
}

// Normalize returns a copy with weights scaled to sum to 1.0.
// All-zero weights normalize to an equal split.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w FactorWeights) Normalize() FactorWeights {
	sum := w.Sum()
	if sum == 0 {
		const equal = 1.0 / 8.0
		return FactorWeights{
			Performance: equal, Safety: equal, Consistency: equal,
			Predictability: equal, Familiarity: equal, FatigueRisk: equal,
			AttritionRisk: equal, TimeVolatility: equal,
		}
	}
	return FactorWeights{
		Performance:    w.Performance / sum,
		Safety:         w.Safety / sum,
		Consistency:    w.Consistency / sum,
		Predictability: w.Predictability / sum,
		Familiarity:    w.Familiarity / sum,
		FatigueRisk:    w.FatigueRisk / sum,
		AttritionRisk:  w.AttritionRisk / sum,
		TimeVolatility: w.TimeVolatility / sum,
	}
}

// ModeWeights holds the fixed weight table for each recommendation mode.
type ModeWeights struct {
	// Balanced weighs performance, safety and consistency roughly equally.
	Balanced FactorWeights `json:"balanced"`

	// IRatingPush boosts performance and field-strength terms and
	// discounts incident-risk penalties.
	IRatingPush FactorWeights `json:"irating_push"`

	// SafetyRecovery boosts incident-avoidance terms and discounts
	// performance.
	SafetyRecovery FactorWeights `json:"safety_recovery"`
}

// For returns the weight table for a mode.
func (m *ModeWeights) For(mode Mode) FactorWeights {
	switch mode {
	case ModeIRatingPush:
		return m.IRatingPush
	case ModeSafetyRecovery:
		return m.SafetyRecovery
	default:
		return m.Balanced
	}
}

// FamiliarityConfig holds the familiarity blend weights and the race-count
// curve breakpoints.
type FamiliarityConfig struct {
	// ExactWeight is the weight of exact (series, track) experience.
	// Default: 0.60.
	ExactWeight float64 `json:"exact_weight"`

	// SeriesWeight is the weight of cross-track series experience.
	// Default: 0.25.
	SeriesWeight float64 `json:"series_weight"`

	// TrackWeight is the weight of cross-series track experience.
	// Default: 0.15.
	TrackWeight float64 `json:"track_weight"`
}

// CurveConfig holds the parameters of the factor normalization curves.
// Each curve maps a raw statistic onto 0-100 where higher is favorable.
type CurveConfig struct {
	// PositionDeltaScale is the score points per position gained.
	// Default: 12.5 (a +4 average delta saturates at 100).
	PositionDeltaScale float64 `json:"position_delta_scale"`

	// IncidentPenalty is the score points lost per average incident.
	// Default: 20 (a 5.0 incident average bottoms out at 0).
	IncidentPenalty float64 `json:"incident_penalty"`

	// ConsistencyPenalty is the score points lost per position of
	// finish spread. Default: 12.
	ConsistencyPenalty float64 `json:"consistency_penalty"`

	// SOFVariabilityPenalty is the score points lost per 10 points of
	// SOF variability. Default: 2.5.
	SOFVariabilityPenalty float64 `json:"sof_variability_penalty"`

	// FatigueBaselineMinutes is the race length below which fatigue is
	// not a concern. Default: 20.
	FatigueBaselineMinutes float64 `json:"fatigue_baseline_minutes"`

	// FatiguePenaltyPerMinute is the score points lost per minute over
	// the baseline. Default: 1.0.
	FatiguePenaltyPerMinute float64 `json:"fatigue_penalty_per_minute"`

	// AttritionPenalty is the score points lost per percentage point of
	// attrition. Default: 1.5.
	AttritionPenalty float64 `json:"attrition_penalty"`

	// TimeVolatilityPenalty is the score points lost per 10 points of
	// SOF variability on the timeVolatility factor. Default: 1.8.
	TimeVolatilityPenalty float64 `json:"time_volatility_penalty"`
}

// RiskBands holds the monotonic cut points for risk labels.
// A factor at or above Low maps to low risk, at or above Moderate to
// moderate risk, anything below to high risk.
type RiskBands struct {
	// Low is the lower bound of the low-risk band. Default: 60.
	Low float64 `json:"low"`

	// Moderate is the lower bound of the moderate-risk band. Default: 40.
	Moderate float64 `json:"moderate"`
}

// Band maps a factor score to its risk label.
func (r RiskBands) Band(score float64) RiskLevel {
	switch {
	case score >= r.Low:
		return RiskLow
	case score >= r.Moderate:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// CacheConfig contains caching parameters for the engine.
type CacheConfig struct {
	// Enabled controls whether the engine consults the cache.
	// Default: true.
	Enabled bool `json:"enabled"`

	// OpportunitiesTTL is the TTL of the weekly opportunity snapshot.
	// Default: 15m.
	OpportunitiesTTL time.Duration `json:"opportunities_ttl"`

	// GlobalStatsTTL is the TTL of per-pair population stats.
	// Default: 1h.
	GlobalStatsTTL time.Duration `json:"global_stats_ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: ModeWeights{
			Balanced: FactorWeights{
				Performance:    0.20,
				Safety:         0.20,
				Consistency:    0.18,
				Predictability: 0.08,
				Familiarity:    0.20,
				FatigueRisk:    0.05,
				AttritionRisk:  0.05,
				TimeVolatility: 0.04,
			},
			IRatingPush: FactorWeights{
				Performance:    0.34,
				Safety:         0.08,
				Consistency:    0.12,
				Predictability: 0.16,
				Familiarity:    0.18,
				FatigueRisk:    0.04,
				AttritionRisk:  0.04,
				TimeVolatility: 0.04,
			},
			SafetyRecovery: FactorWeights{
				Performance:    0.06,
				Safety:         0.34,
				Consistency:    0.18,
				Predictability: 0.08,
				Familiarity:    0.16,
				FatigueRisk:    0.06,
				AttritionRisk:  0.08,
				TimeVolatility: 0.04,
			},
		},
		Familiarity: FamiliarityConfig{
			ExactWeight:  0.60,
			SeriesWeight: 0.25,
			TrackWeight:  0.15,
		},
		Curves: CurveConfig{
			PositionDeltaScale:      12.5,
			IncidentPenalty:         20,
			ConsistencyPenalty:      12,
			SOFVariabilityPenalty:   2.5,
			FatigueBaselineMinutes:  20,
			FatiguePenaltyPerMinute: 1.0,
			AttritionPenalty:        1.5,
			TimeVolatilityPenalty:   1.8,
		},
		Risk: RiskBands{
			Low:      60,
			Moderate: 40,
		},
		Cache: CacheConfig{
			Enabled:          true,
			OpportunitiesTTL: 15 * time.Minute,
			GlobalStatsTTL:   time.Hour,
		},
		Horizon: 7 * 24 * time.Hour,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, mw := range []struct {
		name    string
		weights FactorWeights
	}{
		{"balanced", c.Weights.Balanced},
		{"irating_push", c.Weights.IRatingPush},
		{"safety_recovery", c.Weights.SafetyRecovery},
	} {
		if mw.weights.Sum() <= 0 {
			return fmt.Errorf("weights.%s must have a positive sum", mw.name)
		}
	}

	fam := c.Familiarity.ExactWeight + c.Familiarity.SeriesWeight + c.Familiarity.TrackWeight
	if fam <= 0 {
		return fmt.Errorf("familiarity weights must have a positive sum, got %f", fam)
	}
	if c.Familiarity.ExactWeight < c.Familiarity.SeriesWeight ||
		c.Familiarity.SeriesWeight < c.Familiarity.TrackWeight {
		return fmt.Errorf("familiarity weights must satisfy exact >= series >= track")
	}

	if c.Risk.Low <= c.Risk.Moderate {
		return fmt.Errorf("risk.low must be above risk.moderate, got %f <= %f", c.Risk.Low, c.Risk.Moderate)
	}
	if c.Risk.Moderate < 0 || c.Risk.Low > 100 {
		return fmt.Errorf("risk bands must lie within [0, 100]")
	}

	if c.Cache.OpportunitiesTTL <= 0 {
		return fmt.Errorf("cache.opportunities_ttl must be positive, got %v", c.Cache.OpportunitiesTTL)
	}
	if c.Cache.GlobalStatsTTL <= 0 {
		return fmt.Errorf("cache.global_stats_ttl must be positive, got %v", c.Cache.GlobalStatsTTL)
	}

	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %v", c.Horizon)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	out := *c
	return &out
}
