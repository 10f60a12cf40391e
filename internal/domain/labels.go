package domain

import (
	"strconv"
	"strings"
	"time"
)

// DefaultSimulationStart is the first day of the ground temperature simulations.
var DefaultSimulationStart = time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)

const daysPerYear = 365

// ParseElapsedDays converts a column header into elapsed simulation days.
//
//	"12 days"  → 12
//	"2,5 yrs"  → 912.5
//	"30"       → 30
//	"Day 7"    → 7
//
// Anything else falls back to index+1, the column's position on the time axis.
func ParseElapsedDays(label string, index int) float64 {
	s := strings.TrimSpace(label)

	switch {
	case strings.Contains(s, "days"):
		if v, ok := parseLocaleFloat(strings.SplitN(s, "days", 2)[0]); ok {
			return v
		}
	case strings.Contains(s, "yrs"):
		if v, ok := parseLocaleFloat(strings.SplitN(s, "yrs", 2)[0]); ok {
			return v * daysPerYear
		}
	case strings.HasPrefix(s, "Day "):
		if v, ok := parseLocaleFloat(strings.TrimPrefix(s, "Day ")); ok {
			return v
		}
	default:
		if v, ok := parseLocaleFloat(s); ok {
			return v
		}
	}
	return float64(index + 1)
}

// NewTimeLabel builds the label of the column at index, dated from start.
func NewTimeLabel(raw string, index int, start time.Time) TimeLabel {
	days := ParseElapsedDays(raw, index)
	return TimeLabel{
		Raw:  raw,
		Days: days,
		Date: start.AddDate(0, 0, int(days)),
	}
}

// DayLabels returns "Day 1".."Day n" for headerless exports.
func DayLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = "Day " + strconv.Itoa(i+1)
	}
	return labels
}

func parseLocaleFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
