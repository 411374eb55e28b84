// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var allDays = []int{0, 1, 2, 3, 4, 5, 6}

func repeatingDesc(first string, repeatMinutes int, days []int) RaceTimeDescriptor {
	return RaceTimeDescriptor{
		Repeating: &RepeatingDescriptor{
			FirstSessionTime: first,
			RepeatMinutes:    repeatMinutes,
			DayOffset:        days,
		},
	}
}

func fixedDesc(times ...time.Time) RaceTimeDescriptor {
	return RaceTimeDescriptor{
		Fixed: &FixedDescriptor{SessionTimes: times},
	}
}

func TestNextRaceTimeRepeating(t *testing.T) {
	calc := NewRaceTimeCalculator(zerolog.Nop())

	// 2026-08-19 is a Wednesday.
	ref := time.Date(2026, 8, 19, 15, 38, 0, 0, time.UTC)

	tests := []struct {
		name string
		desc RaceTimeDescriptor
		want time.Time
	}{
		{
			name: "every 30 minutes from 00:15",
			desc: repeatingDesc("00:15:00", 30, allDays),
			want: time.Date(2026, 8, 19, 15, 45, 0, 0, time.UTC),
		},
		{
			name: "daily session already passed rolls to next day",
			desc: repeatingDesc("07:00:00", 0, allDays),
			want: time.Date(2026, 8, 20, 7, 0, 0, 0, time.UTC),
		},
		{
			name: "daily session still ahead today",
			desc: repeatingDesc("20:00:00", 0, allDays),
			want: time.Date(2026, 8, 19, 20, 0, 0, 0, time.UTC),
		},
		{
			name: "weekend-only descriptor skips to Saturday",
			desc: repeatingDesc("12:00:00", 60, []int{0, 6}),
			want: time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.NextRaceTime([]RaceTimeDescriptor{tt.desc}, ref)
			if got == nil {
				t.Fatal("expected a next race time, got nil")
			}
			if !got.NextRaceTime.Equal(tt.want) {
				t.Errorf("next race time = %v, want %v", got.NextRaceTime, tt.want)
			}
			if !got.IsRepeating {
				t.Error("expected IsRepeating to be true")
			}
		})
	}
}

func TestNextRaceTimeNeverCrossesMidnight(t *testing.T) {
	calc := NewRaceTimeCalculator(zerolog.Nop())

	// Boundaries of 23:50 + 30m land at 00:20 next day; those must not be
	// attributed to the earlier day. The next occurrence is the following
	// day's 23:50.
	ref := time.Date(2026, 8, 19, 23, 55, 0, 0, time.UTC)
	desc := repeatingDesc("23:50:00", 30, allDays)

	got := calc.NextRaceTime([]RaceTimeDescriptor{desc}, ref)
	if got == nil {
		t.Fatal("expected a next race time, got nil")
	}
	want := time.Date(2026, 8, 20, 23, 50, 0, 0, time.UTC)
	if !got.NextRaceTime.Equal(want) {
		t.Errorf("next race time = %v, want %v", got.NextRaceTime, want)
	}
}

func TestNextRaceTimeFixed(t *testing.T) {
	calc := NewRaceTimeCalculator(zerolog.Nop())
	ref := time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)

	past := ref.Add(-2 * time.Hour)
	atRef := ref
	soon := ref.Add(3 * time.Hour)
	later := ref.Add(26 * time.Hour)

	got := calc.NextRaceTime([]RaceTimeDescriptor{fixedDesc(later, past, atRef, soon)}, ref)
	if got == nil {
		t.Fatal("expected a next race time, got nil")
	}
	if !got.NextRaceTime.Equal(soon) {
		t.Errorf("next race time = %v, want %v (strictly after ref)", got.NextRaceTime, soon)
	}
	if got.IsRepeating {
		t.Error("fixed descriptor must not report IsRepeating")
	}
}

func TestNextRaceTimeEarliestAcrossDescriptors(t *testing.T) {
	calc := NewRaceTimeCalculator(zerolog.Nop())
	ref := time.Date(2026, 8, 19, 15, 38, 0, 0, time.UTC)

	descs := []RaceTimeDescriptor{
		repeatingDesc("00:00:00", 120, allDays), // next: 16:00
		fixedDesc(ref.Add(10 * time.Minute)),    // next: 15:48
		repeatingDesc("00:15:00", 30, allDays),  // next: 15:45
		fixedDesc(time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)),
	}

	got := calc.NextRaceTime(descs, ref)
	if got == nil {
		t.Fatal("expected a next race time, got nil")
	}
	want := time.Date(2026, 8, 19, 15, 45, 0, 0, time.UTC)
	if !got.NextRaceTime.Equal(want) {
		t.Errorf("next race time = %v, want %v", got.NextRaceTime, want)
	}
	if got.RepeatMinutes != 30 {
		t.Errorf("RepeatMinutes = %d, want 30", got.RepeatMinutes)
	}
}

func TestNextRaceTimeExhaustedAndMalformed(t *testing.T) {
	calc := NewRaceTimeCalculator(zerolog.Nop())
	ref := time.Date(2026, 8, 19, 15, 38, 0, 0, time.UTC)

	tests := []struct {
		name  string
		descs []RaceTimeDescriptor
	}{
		{"no descriptors", nil},
		{"all fixed times in the past", []RaceTimeDescriptor{
			fixedDesc(ref.Add(-time.Hour), ref.Add(-time.Minute)),
		}},
		{"neither shape", []RaceTimeDescriptor{{}}},
		{"both shapes", []RaceTimeDescriptor{{
			Repeating: &RepeatingDescriptor{FirstSessionTime: "00:00:00", DayOffset: allDays},
			Fixed:     &FixedDescriptor{SessionTimes: []time.Time{ref.Add(time.Hour)}},
		}}},
		{"unparseable session time", []RaceTimeDescriptor{
			repeatingDesc("not-a-time", 30, allDays),
		}},
		{"no valid weekdays", []RaceTimeDescriptor{
			repeatingDesc("12:00:00", 30, []int{7, -1}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.NextRaceTime(tt.descs, ref); got != nil {
				t.Errorf("expected nil, got %v", got.NextRaceTime)
			}
		})
	}
}

func TestUpcomingTimeSlots(t *testing.T) {
	calc := NewRaceTimeCalculator(zerolog.Nop())
	ref := time.Date(2026, 8, 19, 22, 0, 0, 0, time.UTC)

	descs := []RaceTimeDescriptor{
		repeatingDesc("00:00:00", 60, allDays),
		fixedDesc(ref.Add(30 * time.Minute)),
	}

	slots := calc.UpcomingTimeSlots(descs, ref, 3*time.Hour)

	// Hourly boundaries at 23:00, 00:00, 01:00 plus the fixed 22:30.
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4: %v", len(slots), slots)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Before(slots[i-1]) {
			t.Errorf("slots not sorted: %v before %v", slots[i], slots[i-1])
		}
	}
	for _, s := range slots {
		if !s.After(ref) || s.After(ref.Add(3*time.Hour)) {
			t.Errorf("slot %v outside window (%v, %v]", s, ref, ref.Add(3*time.Hour))
		}
	}
}
