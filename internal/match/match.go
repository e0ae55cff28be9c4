// Package match scores canonical shift records against a member's
// preferences and ranks them. Scoring is pure and deterministic: the same
// record and preference set always produce the same score and breakdown.
package match

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/shifts"
)

// Score bounds. Every score is clamped into this range.
const (
	minScore  = 0
	maxScore  = 120
	baseScore = 100
)

// Matcher holds one preference set, normalized for comparison.
type Matcher struct {
	days       []string // lower-cased
	times      []string // lower-cased
	committees []string // ranked, original casing kept for lookups
	excluded   []string // lower-cased
}

// New builds a matcher from a preference set. Nil or missing preference
// lists behave as empty ones.
func New(prefs domain.Preferences) *Matcher {
	return &Matcher{
		days:       lowerAll(prefs.Days),
		times:      lowerAll(prefs.Times),
		committees: slices.Clone(prefs.Committees),
		excluded:   lowerAll(prefs.ExcludedCommittees),
	}
}

// Score applies the additive point system to one shift.
// Base 100; committee rank, day, time, slot count, and a late-evening
// penalty each contribute; the result is clamped to [0,120].
func (m *Matcher) Score(shift domain.Shift) domain.ScoredShift {
	score := baseScore
	var breakdown []domain.BreakdownEntry
	add := func(factor, reason string) {
		breakdown = append(breakdown, domain.BreakdownEntry{Factor: factor, Reason: reason})
	}

	// Committee rank.
	switch {
	case len(m.committees) == 0:
		add("committee", "No committee preference set")
	default:
		rank := indexFold(m.committees, shift.Committee)
		switch {
		case rank == 0:
			score += 10
			add("committee", fmt.Sprintf("Top choice: %s (+10%%)", shift.Committee))
		case rank > 0:
			penalty := rank * 5
			score -= penalty
			add("committee", fmt.Sprintf("Rank #%d: %s (-%d%%)", rank+1, shift.Committee, penalty))
		default:
			score -= 25
			add("committee", fmt.Sprintf("%s not in your preferences (-25%%)", shift.Committee))
		}
	}

	// Day.
	switch {
	case len(m.days) == 0:
		add("day", "No day preference set")
	case slices.Contains(m.days, strings.ToLower(shift.Day)):
		add("day", fmt.Sprintf("%s is a preferred day", shift.Day))
	default:
		score -= 20
		add("day", fmt.Sprintf("%s is not preferred (-20%%)", shift.Day))
	}

	// Time of day.
	switch {
	case len(m.times) == 0:
		add("time", "No time preference set")
	case slices.Contains(m.times, strings.ToLower(string(shift.TimeSlot))):
		add("time", fmt.Sprintf("%s is a preferred time", shift.TimeSlot))
	default:
		score -= 15
		add("time", fmt.Sprintf("%s is not preferred (-15%%)", shift.TimeSlot))
	}

	// Slot count.
	if n, err := strconv.Atoi(strings.TrimSpace(shift.Slots)); err != nil {
		add("slots", "Slots unknown")
	} else {
		switch {
		case n > 3:
			score += 5
			add("slots", fmt.Sprintf("%d slots available (+5%%)", n))
		case n == 1:
			score -= 5
			add("slots", "Only 1 slot left (-5%)")
		default:
			add("slots", fmt.Sprintf("%d slots available", n))
		}
	}

	// Late-evening penalty. Entry only appears when it fires.
	if hour, ok := shifts.ParseHour24(shift.TimeRaw); ok && hour >= 21 {
		score -= 10
		add("late", "Late evening shift (-10%)")
	}

	return domain.ScoredShift{
		Shift:     shift,
		Score:     clamp(score, minScore, maxScore),
		Breakdown: breakdown,
	}
}

// Rank drops excluded committees, scores the rest, and sorts descending by
// score. The sort is stable so ties keep their extraction order.
func (m *Matcher) Rank(records []domain.Shift) []domain.ScoredShift {
	scored := make([]domain.ScoredShift, 0, len(records))
	for _, shift := range records {
		if slices.Contains(m.excluded, strings.ToLower(shift.Committee)) {
			continue
		}
		scored = append(scored, m.Score(shift))
	}
	slices.SortStableFunc(scored, func(a, b domain.ScoredShift) int {
		return b.Score - a.Score
	})
	return scored
}

// Top ranks and truncates to the first n results.
func (m *Matcher) Top(records []domain.Shift, n int) []domain.ScoredShift {
	ranked := m.Rank(records)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}

// indexFold returns the index of target in values, case-insensitively, or -1.
func indexFold(values []string, target string) int {
	for i, v := range values {
		if strings.EqualFold(v, target) {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
