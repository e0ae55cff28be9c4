// Package shifts turns the member portal's shift pages into canonical
// Shift records. Two heuristic extraction strategies cover the known page
// layouts: a generic table layout and a day-column grid layout.
package shifts

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

var (
	dayPrefixRegex = regexp.MustCompile(`^(mon|tue|wed|thu|fri|sat|sun)`)
	clockRegex     = regexp.MustCompile(`(\d{1,2}):(\d{2})[\s\x{00A0}]*([APap][Mm])`)

	// Emoji blocks plus variation selectors and ZWJ, as the portal decorates
	// committee names with glyphs like the carrot marker.
	decorationRegex = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2702}-\x{27B0}\x{FE00}-\x{FE0F}\x{200D}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]+`)
	leadingStars    = regexp.MustCompile(`^\*+\s*`)

	titleCaser = cases.Title(language.English)
)

// IsDayName reports whether text starts with a three-letter weekday
// abbreviation, ignoring case and surrounding whitespace.
func IsDayName(text string) bool {
	return dayPrefixRegex.MatchString(strings.ToLower(strings.TrimSpace(text)))
}

// NormalizeDay maps a weekday-like token ("sat", "Saturday 6pm") to the
// canonical full day name. Unrecognized input is returned title-cased.
func NormalizeDay(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if len(t) > 3 {
		t = t[:3]
	}
	for _, day := range domain.DayNames {
		if strings.HasPrefix(strings.ToLower(day), t) {
			return day
		}
	}
	return titleCaser.String(strings.TrimSpace(text))
}

// ClassifyTimeSlot derives the time-of-day bucket from raw time text.
// Text without a recognizable clock time classifies as Morning; the portal's
// table layout omits times often enough that Unknown would dominate.
func ClassifyTimeSlot(timeRaw string) domain.TimeSlot {
	hour, ok := ParseHour24(timeRaw)
	if !ok {
		return domain.SlotMorning
	}
	switch {
	case hour < 12:
		return domain.SlotMorning
	case hour < 17:
		return domain.SlotAfternoon
	case hour < 21:
		return domain.SlotEvening
	default:
		return domain.SlotOvernight
	}
}

// ParseHour24 extracts the first H:MM AM/PM clock time from text and returns
// its hour in 24-hour form. Noon stays 12, midnight becomes 0.
func ParseHour24(text string) (int, bool) {
	m := clockRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	ampm := strings.ToUpper(m[3])
	if ampm == "PM" && hour != 12 {
		hour += 12
	}
	if ampm == "AM" && hour == 12 {
		hour = 0
	}
	return hour, true
}

// FuzzyCommittee matches text against the committee catalog, case-insensitive
// and substring in either direction. The first catalog entry that matches
// wins. Returns "" when nothing matches.
func FuzzyCommittee(text string, catalog []string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return ""
	}
	for _, c := range catalog {
		cl := strings.ToLower(c)
		if strings.Contains(t, cl) || strings.Contains(cl, t) {
			return c
		}
	}
	return ""
}

// StripDecoration removes decorative glyphs and leading asterisk markers
// (the portal's training-required flag) from committee text.
func StripDecoration(text string) string {
	text = decorationRegex.ReplaceAllString(text, "")
	text = leadingStars.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.TrimSpace(text)
}
