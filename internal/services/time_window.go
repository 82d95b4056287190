package services

import (
	"math"
	"strings"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/timeofday"
)

// Outcome of checking one event slot against place hours and closures.
type Validation struct {
	Valid  bool
	Reason string
}

func (v Validation) Status() domain.ValidationStatus {
	if v.Valid {
		return domain.ValidationValid
	}
	return domain.ValidationInvalid
}

func invalid(reason string) Validation { return Validation{Reason: reason} }

// PlaceDurationMin is the place's average visit duration in whole minutes.
// Missing, non-finite and negative durations count as 0.
func PlaceDurationMin(place *domain.Place) int {
	if place == nil {
		return 0
	}
	d := place.AvgDurationMin
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0
	}
	return int(math.Round(d))
}

// ValidateTimeWindow checks a visit to place starting at startClock on date,
// using the place's own average duration.
func ValidateTimeWindow(place *domain.Place, date, startClock string, closure *domain.Closure, timezone string) Validation {
	return ValidateTimeWindowFor(place, date, startClock, PlaceDurationMin(place), closure, timezone)
}

// ValidateTimeWindowFor is ValidateTimeWindow with an explicit visit duration.
// Rules are evaluated in a fixed order and the first failure wins.
func ValidateTimeWindowFor(place *domain.Place, date, startClock string, durationMin int, closure *domain.Closure, timezone string) Validation {
	if place == nil {
		return invalid(domain.ReasonPlaceNotFound)
	}

	start, err := timeofday.ParseClock(startClock)
	if err != nil {
		return invalid(domain.ReasonInvalidTimeFormat)
	}
	end := start + max(0, durationMin)

	weekday, err := timeofday.ResolveWeekday(date, timezone)
	if err != nil {
		return invalid(domain.ReasonInvalidDate)
	}
	for _, d := range place.ClosedDays {
		if strings.EqualFold(strings.TrimSpace(d), weekday) {
			return invalid(domain.ReasonClosedOnDay)
		}
	}

	if closure != nil {
		if closure.IsClosedFullDay {
			return invalid(domain.ReasonClosedSpecialDate)
		}
		for _, r := range closure.ClosedRanges {
			rs, errStart := timeofday.ParseClock(r.Start)
			re, errEnd := timeofday.ParseClock(r.End)
			if errStart != nil || errEnd != nil || re <= rs {
				return invalid(domain.ReasonInvalidClosureRange)
			}
			// Half-open overlap of [start, end) and [rs, re).
			if start < re && end > rs {
				return invalid(domain.ReasonClosedSpecialDate)
			}
		}
	}

	opens, errOpen := timeofday.ParseClock(place.OpensAt)
	closes, errClose := timeofday.ParseClock(place.ClosesAt)
	if errOpen != nil || errClose != nil {
		return invalid(domain.ReasonInvalidPlaceHours)
	}

	if start < opens || start >= closes || end > closes {
		return invalid(domain.ReasonClosedAtTime)
	}

	return Validation{Valid: true}
}
