// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package validation

import (
	"strings"
	"testing"
)

type sampleQuery struct {
	UserID     int    `validate:"required,gt=0"`
	Mode       string `validate:"omitempty,racemode"`
	Category   string `validate:"omitempty,racecategory"`
	MinScore   int    `validate:"min=0,max=100"`
	MaxResults int    `validate:"min=1,max=100"`
}

func validQuery() sampleQuery {
	return sampleQuery{UserID: 42, MaxResults: 20}
}

func TestValidateStructPasses(t *testing.T) {
	q := validQuery()
	q.Mode = "irating_push"
	q.Category = "sports_car"

	if verr := ValidateStruct(&q); verr != nil {
		t.Fatalf("valid query rejected: %v", verr)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*sampleQuery)
		wantField   string
		wantMessage string
	}{
		{
			"missing user",
			func(q *sampleQuery) { q.UserID = 0 },
			"UserID",
			"UserID is required",
		},
		{
			"unknown mode",
			func(q *sampleQuery) { q.Mode = "yolo" },
			"Mode",
			"Mode must be one of: balanced, irating_push, safety_recovery",
		},
		{
			"unknown category",
			func(q *sampleQuery) { q.Category = "karting" },
			"Category",
			"Category must be a known racing category",
		},
		{
			"min score too high",
			func(q *sampleQuery) { q.MinScore = 101 },
			"MinScore",
			"MinScore must be at most 100",
		},
		{
			"max results too low",
			func(q *sampleQuery) { q.MaxResults = 0 },
			"MaxResults",
			"MaxResults must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(&q)

			verr := ValidateStruct(&q)
			if verr == nil {
				t.Fatal("expected a validation error")
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(verr.Fields), verr)
			}
			if verr.Fields[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Fields[0].Field, tt.wantField)
			}
			if verr.Fields[0].Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", verr.Fields[0].Message, tt.wantMessage)
			}
		})
	}
}

func TestValidateStructCollectsAllFailures(t *testing.T) {
	q := sampleQuery{UserID: 0, Mode: "yolo", MaxResults: 0}

	verr := ValidateStruct(&q)
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("got %d field errors, want 3: %v", len(verr.Fields), verr)
	}

	joined := verr.Error()
	for _, want := range []string{"UserID", "Mode", "MaxResults"} {
		if !strings.Contains(joined, want) {
			t.Errorf("joined message missing %s: %q", want, joined)
		}
	}
}

func TestEmptyValidationError(t *testing.T) {
	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("empty error = %q", verr.Error())
	}
}

func TestOptionalFieldsSkipValidation(t *testing.T) {
	q := validQuery() // Mode and Category empty
	if verr := ValidateStruct(&q); verr != nil {
		t.Errorf("omitempty fields rejected when empty: %v", verr)
	}
}
