// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"math"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestNormalizeSumsToOne(t *testing.T) {
	cfg := DefaultConfig()
	for _, w := range []FactorWeights{
		cfg.Weights.Balanced,
		cfg.Weights.IRatingPush,
		cfg.Weights.SafetyRecovery,
		{Performance: 3, Safety: 7}, // non-unit input
	} {
		sum := w.Normalize().Sum()
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("normalized sum = %v, want 1.0", sum)
		}
	}
}

func TestNormalizeAllZeroIsEqualSplit(t *testing.T) {
	n := FactorWeights{}.Normalize()
	const equal = 1.0 / 8.0
	if n.Performance != equal || n.TimeVolatility != equal {
		t.Errorf("all-zero weights did not normalize to an equal split: %+v", n)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero balanced weights", func(c *Config) { c.Weights.Balanced = FactorWeights{} }},
		{"negative weight sum", func(c *Config) { c.Weights.IRatingPush = FactorWeights{Performance: -1} }},
		{"familiarity ordering", func(c *Config) { c.Familiarity.TrackWeight = 0.9 }},
		{"risk band inversion", func(c *Config) { c.Risk.Low = 30 }},
		{"risk band out of range", func(c *Config) { c.Risk.Low = 120 }},
		{"zero opportunities ttl", func(c *Config) { c.Cache.OpportunitiesTTL = 0 }},
		{"zero global stats ttl", func(c *Config) { c.Cache.GlobalStatsTTL = 0 }},
		{"zero horizon", func(c *Config) { c.Horizon = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestConfigCloneIsIndependent(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.Weights.Balanced.Performance = 0.99
	clone.Risk.Low = 75

	if original.Weights.Balanced.Performance == 0.99 {
		t.Error("mutating the clone changed the original weights")
	}
	if original.Risk.Low == 75 {
		t.Error("mutating the clone changed the original risk bands")
	}
}

func TestRiskBand(t *testing.T) {
	bands := DefaultConfig().Risk

	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{100, RiskLow},
		{60, RiskLow},
		{59.9, RiskModerate},
		{40, RiskModerate},
		{39.9, RiskHigh},
		{0, RiskHigh},
	}

	for _, tt := range tests {
		if got := bands.Band(tt.score); got != tt.want {
			t.Errorf("Band(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
