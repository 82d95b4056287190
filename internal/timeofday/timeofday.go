// Package timeofday converts between "HH:MM" clock strings and
// minutes-since-midnight, and resolves weekday names in a timezone.
package timeofday

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

const (
	MinMinute = 0
	MaxMinute = 23*60 + 59
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock converts a strict "HH:MM" value into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, domain.ErrInvalidTimeFormat)
	}

	// The pattern guarantees both groups are two digits.
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])

	return hh*60 + mm, nil
}

// FormatClock renders minutes since midnight as "HH:MM", clamped to [00:00, 23:59].
func FormatClock(minutes int) string {
	minutes = max(MinMinute, min(MaxMinute, minutes))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatClockFloat is FormatClock for values computed in floating point.
// Non-finite and negative input become 00:00; fractions are floored.
func FormatClockFloat(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return FormatClock(0)
	}
	if minutes > MaxMinute {
		return FormatClock(MaxMinute)
	}
	return FormatClock(int(math.Floor(minutes)))
}

// ParseDate accepts a calendar date ("2006-01-02") or an RFC 3339 instant.
// The boolean reports whether the input carried a time of day.
func ParseDate(date string) (time.Time, bool, error) {
	date = strings.TrimSpace(date)

	if t, err := time.Parse(time.DateOnly, date); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t, true, nil
	}

	return time.Time{}, false, fmt.Errorf("parse date %q: %w", date, domain.ErrInvalidDate)
}

// ResolveWeekday returns the uppercase weekday name (e.g. "SUNDAY") of date in timezone.
//
// A calendar date names its own weekday. An instant is converted into the
// timezone first; when the timezone cannot be loaded the UTC weekday of the
// same instant is used instead of failing.
func ResolveWeekday(date string, timezone string) (string, error) {
	t, isInstant, err := ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("resolve weekday: %w", err)
	}

	if !isInstant {
		return WeekdayName(t.Weekday()), nil
	}

	return WeekdayName(InLocation(t, timezone).Weekday()), nil
}

// InLocation converts t into timezone, falling back to UTC for unknown zones.
func InLocation(t time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(strings.TrimSpace(timezone))
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}

// WeekdayName returns the uppercase English name of d.
func WeekdayName(d time.Weekday) string {
	return strings.ToUpper(d.String())
}
