// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import "fmt"

// HighestLicenseLevel returns the user's highest license level in a
// category. A user may hold duplicate classes in a category; the maximum
// rank wins. The second return value is false when the user holds no
// license in the category.
func HighestLicenseLevel(hist *UserHistory, category Category) (LicenseLevel, bool) {
	best := LicenseRookie
	found := false

	for _, lc := range hist.Licenses {
		if lc.Category != category {
			continue
		}
		if !found || lc.Level.Rank() > best.Rank() {
			best = lc.Level
		}
		found = true
	}

	return best, found
}

// HasRequiredLicense reports whether the user is eligible for the
// opportunity: a license in the opportunity's category with rank at or
// above the required rank. A user with no license in the category is
// always ineligible.
func HasRequiredLicense(op *RacingOpportunity, hist *UserHistory) bool {
	level, ok := HighestLicenseLevel(hist, op.Category)
	if !ok {
		return false
	}
	return level.Rank() >= op.LicenseRequired.Rank()
}

// FilterByLicense keeps only the opportunities the user is eligible for.
// An absent or empty license list yields an empty result.
func FilterByLicense(ops []RacingOpportunity, hist *UserHistory) []RacingOpportunity {
	eligible := make([]RacingOpportunity, 0, len(ops))
	for i := range ops {
		if HasRequiredLicense(&ops[i], hist) {
			eligible = append(eligible, ops[i])
		}
	}
	return eligible
}

// AlmostEligibleOpportunities returns the opportunities whose required rank
// is exactly one above the user's rank in that category. A user with no
// license in a category is "almost eligible" only for Rookie-required
// opportunities there.
func AlmostEligibleOpportunities(ops []RacingOpportunity, hist *UserHistory) []RacingOpportunity {
	almost := make([]RacingOpportunity, 0, len(ops))

	for i := range ops {
		level, ok := HighestLicenseLevel(hist, ops[i].Category)
		switch {
		case !ok:
			if ops[i].LicenseRequired == LicenseRookie {
				almost = append(almost, ops[i])
			}
		case ops[i].LicenseRequired.Rank() == level.Rank()+1:
			almost = append(almost, ops[i])
		}
	}

	return almost
}

// FilterBySetup keeps only opportunities matching the requested setup type.
// It is independent of license filtering; composing both is an intersection.
func FilterBySetup(ops []RacingOpportunity, setup SetupType) []RacingOpportunity {
	if setup == SetupAny || setup == "" {
		return ops
	}

	wantOpen := setup == SetupOpen
	matched := make([]RacingOpportunity, 0, len(ops))
	for i := range ops {
		if ops[i].HasOpenSetup == wantOpen {
			matched = append(matched, ops[i])
		}
	}
	return matched
}

// progressionRequirements describes what advancing out of each level takes.
var progressionRequirements = map[LicenseLevel]string{
	LicenseRookie: "complete 4 races (or 4 time trials) with a Safety Rating of 3.0 or better",
	LicenseD:      "reach a Safety Rating of 3.0 at D class, or 4.0 for fast-track promotion",
	LicenseC:      "reach a Safety Rating of 3.0 at C class, or 4.0 for fast-track promotion",
	LicenseB:      "reach a Safety Rating of 3.0 at B class, or 4.0 for fast-track promotion",
	LicenseA:      "Pro licenses are awarded through top-split championship performance",
}

// LicenseProgressionSuggestions returns one suggestion per category the
// user holds a license in, naming the current level, the next level (nil
// when already at Pro) and a static requirement description.
func LicenseProgressionSuggestions(hist *UserHistory) []LicenseProgression {
	suggestions := make([]LicenseProgression, 0, len(Categories()))

	for _, category := range Categories() {
		level, ok := HighestLicenseLevel(hist, category)
		if !ok {
			continue
		}

		suggestion := LicenseProgression{
			Category:     category,
			CurrentLevel: level,
		}

		if level < LicensePro {
			next := level + 1
			suggestion.NextLevel = &next
			suggestion.Requirement = progressionRequirements[level]
		} else {
			suggestion.Requirement = fmt.Sprintf("already at the top %s license", category)
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions
}
