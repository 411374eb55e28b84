// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import "errors"

// The engine distinguishes three caller-visible error kinds. Data-absence
// conditions are not errors; they degrade confidence or exclude the single
// affected opportunity and surface in response metadata instead.
var (
	// ErrInvalidRequest marks malformed caller input. It never reaches
	// scoring and maps to a 4xx-equivalent at the API boundary.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstream marks a failure of the history or schedule
	// collaborator. It is propagated unmasked and never retried here.
	ErrUpstream = errors.New("upstream provider error")

	// ErrOpportunityNotFound marks an unknown (series, track)
	// combination in single-opportunity analysis.
	ErrOpportunityNotFound = errors.New("opportunity not found")
)
