// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// maxDayScan bounds the forward day-by-day scan for repeating descriptors.
const maxDayScan = 7

// RaceTimeCalculator converts recurrence descriptors into concrete future
// timestamps. All methods are side-effect-free apart from logging skipped
// malformed descriptors.
type RaceTimeCalculator struct {
	logger zerolog.Logger
}

// NewRaceTimeCalculator creates a race time calculator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRaceTimeCalculator(logger zerolog.Logger) *RaceTimeCalculator {
	return &RaceTimeCalculator{
		logger: logger.With().Str("component", "racetime").Logger(),
	}
}

// NextRaceTime returns the single nearest future occurrence across all
// descriptors, or nil when every descriptor is exhausted or unusable.
// A nil result is a legitimate state (e.g. a discontinued series), not an
// error. Malformed descriptors are skipped.
func (c *RaceTimeCalculator) NextRaceTime(descs []RaceTimeDescriptor, ref time.Time) *NextRace {
	var best *NextRace

	for i := range descs {
		candidate := c.nextForDescriptor(&descs[i], ref)
		if candidate == nil {
			continue
		}
		// Earliest wins; on equal timestamps the first discovered stays.
		if best == nil || candidate.NextRaceTime.Before(best.NextRaceTime) {
			best = candidate
		}
	}

	return best
}

// UpcomingTimeSlots returns every occurrence across all descriptors within
// (ref, ref+horizon], merged and sorted ascending. A non-positive horizon
// falls back to seven days.
func (c *RaceTimeCalculator) UpcomingTimeSlots(descs []RaceTimeDescriptor, ref time.Time, horizon time.Duration) []time.Time {
	if horizon <= 0 {
		horizon = maxDayScan * 24 * time.Hour
	}
	end := ref.Add(horizon)

	var slots []time.Time
	for i := range descs {
		slots = append(slots, c.slotsForDescriptor(&descs[i], ref, end)...)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Before(slots[j])
	})

	return slots
}

// nextForDescriptor resolves one descriptor to its nearest future
// occurrence, or nil.
func (c *RaceTimeCalculator) nextForDescriptor(d *RaceTimeDescriptor, ref time.Time) *NextRace {
	if err := checkDescriptorShape(d); err != nil {
		c.logger.Warn().Err(err).Msg("skipping malformed race time descriptor")
		return nil
	}

	if d.Repeating != nil {
		t, ok := c.nextRepeating(d.Repeating, ref)
		if !ok {
			return nil
		}
		return &NextRace{
			NextRaceTime:  t,
			IsRepeating:   true,
			RepeatMinutes: d.Repeating.RepeatMinutes,
		}
	}

	t, ok := nextFixed(d.Fixed, ref)
	if !ok {
		return nil
	}
	return &NextRace{NextRaceTime: t}
}

// nextRepeating finds the next interval boundary of a repeating descriptor
// strictly after ref. Boundaries landing at or after midnight are excluded;
// the day-advance loop handles the following day explicitly.
func (c *RaceTimeCalculator) nextRepeating(rep *RepeatingDescriptor, ref time.Time) (time.Time, bool) {
	offset, err := parseSessionTime(rep.FirstSessionTime)
	if err != nil {
		c.logger.Warn().
			Str("first_session_time", rep.FirstSessionTime).
			Err(err).
			Msg("skipping repeating descriptor with unparseable session time")
		return time.Time{}, false
	}

	days := daySet(rep.DayOffset)
	if len(days) == 0 {
		c.logger.Warn().Msg("skipping repeating descriptor with no valid weekdays")
		return time.Time{}, false
	}

	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	for i := 0; i <= maxDayScan; i++ {
		day := dayStart.AddDate(0, 0, i)
		if _, ok := days[int(day.Weekday())]; !ok {
			continue
		}

		first := day.Add(offset)
		candidate, ok := nextBoundary(first, rep.RepeatMinutes, ref, day.AddDate(0, 0, 1))
		if ok {
			return candidate, true
		}
	}

	return time.Time{}, false
}

// nextBoundary returns the first interval boundary strictly after ref that
// still lies before midnight of the descriptor's day.
func nextBoundary(first time.Time, repeatMinutes int, ref, midnight time.Time) (time.Time, bool) {
	candidate := first

	if repeatMinutes > 0 && !first.After(ref) {
		interval := time.Duration(repeatMinutes) * time.Minute
		k := ref.Sub(first)/interval + 1
		candidate = first.Add(k * interval)
	}

	if candidate.After(ref) && candidate.Before(midnight) {
		return candidate, true
	}
	return time.Time{}, false
}

// nextFixed returns the earliest session time strictly after ref.
func nextFixed(fixed *FixedDescriptor, ref time.Time) (time.Time, bool) {
	var best time.Time
	found := false

	for _, t := range fixed.SessionTimes {
		if !t.After(ref) {
			continue
		}
		if !found || t.Before(best) {
			best = t
			found = true
		}
	}

	return best, found
}

// slotsForDescriptor collects every occurrence of one descriptor within
// (ref, end].
func (c *RaceTimeCalculator) slotsForDescriptor(d *RaceTimeDescriptor, ref, end time.Time) []time.Time {
	if err := checkDescriptorShape(d); err != nil {
		c.logger.Warn().Err(err).Msg("skipping malformed race time descriptor")
		return nil
	}

	if d.Fixed != nil {
		var slots []time.Time
		for _, t := range d.Fixed.SessionTimes {
			if t.After(ref) && !t.After(end) {
				slots = append(slots, t)
			}
		}
		return slots
	}

	return c.repeatingSlots(d.Repeating, ref, end)
}

// repeatingSlots replays the repeating-descriptor logic but collects every
// boundary within the window instead of stopping at the first.
func (c *RaceTimeCalculator) repeatingSlots(rep *RepeatingDescriptor, ref, end time.Time) []time.Time {
	offset, err := parseSessionTime(rep.FirstSessionTime)
	if err != nil {
		c.logger.Warn().
			Str("first_session_time", rep.FirstSessionTime).
			Err(err).
			Msg("skipping repeating descriptor with unparseable session time")
		return nil
	}

	days := daySet(rep.DayOffset)
	if len(days) == 0 {
		c.logger.Warn().Msg("skipping repeating descriptor with no valid weekdays")
		return nil
	}

	var slots []time.Time
	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	for i := 0; ; i++ {
		day := dayStart.AddDate(0, 0, i)
		if day.After(end) {
			break
		}
		if _, ok := days[int(day.Weekday())]; !ok {
			continue
		}

		midnight := day.AddDate(0, 0, 1)
		for t := day.Add(offset); t.Before(midnight); {
			if t.After(ref) && !t.After(end) {
				slots = append(slots, t)
			}
			if rep.RepeatMinutes <= 0 {
				break
			}
			t = t.Add(time.Duration(rep.RepeatMinutes) * time.Minute)
		}
	}

	return slots
}

// checkDescriptorShape enforces the exactly-one-shape invariant.
func checkDescriptorShape(d *RaceTimeDescriptor) error {
	switch {
	case d.Repeating == nil && d.Fixed == nil:
		return fmt.Errorf("descriptor has neither repeating nor fixed shape")
	case d.Repeating != nil && d.Fixed != nil:
		return fmt.Errorf("descriptor has both repeating and fixed shapes")
	default:
		return nil
	}
}

// parseSessionTime parses an "HH:MM:SS" time-of-day into an offset from
// midnight.
func parseSessionTime(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse session time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("session time %q out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// daySet builds the set of valid weekdays from a day offset list.
// Out-of-range entries are dropped.
func daySet(dayOffset []int) map[int]struct{} {
	days := make(map[int]struct{}, len(dayOffset))
	for _, d := range dayOffset {
		if d >= 0 && d <= 6 {
			days[d] = struct{}{}
		}
	}
	return days
}
