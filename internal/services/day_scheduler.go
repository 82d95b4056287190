package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/timeofday"
)

const (
	DefaultDayStartTime        = "09:00"
	DefaultTransitionBufferMin = 10
	DefaultTimezone            = "Asia/Kolkata"
)

// ResolveFunc computes the transit between two consecutive stops.
type ResolveFunc func(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error)

// Inputs for one day's scheduling run.
type ScheduleConfig struct {
	// Calendar date of the day, "2006-01-02" or RFC 3339.
	Date string
	// IANA zone used to resolve the weekday of an instant.
	Timezone string
	// Clock time of the first event, "HH:MM".
	DayStartTime string
	// Gap between one event's arrival and the next start. Negative values count as 0.
	TransitionBufferMin int
	// Date-specific closures keyed by place id.
	Closures map[string]*domain.Closure
	// Transit lookup; nil leaves every leg STATIC with a warning.
	Resolve ResolveFunc
	Logger  *zap.Logger
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Timezone:            DefaultTimezone,
		DayStartTime:        DefaultDayStartTime,
		TransitionBufferMin: DefaultTransitionBufferMin,
	}
}

// EventDurationMin is the place average when positive, else the event
// override when positive, else 0.
func EventDurationMin(ev domain.Event) int {
	if d := PlaceDurationMin(ev.Place); d > 0 {
		return d
	}
	if ev.DurationMin != nil && *ev.DurationMin > 0 {
		return *ev.DurationMin
	}
	return 0
}

// ScheduleDay assigns contiguous slots to events in their relative order,
// validates each slot and fills the transit between consecutive stops.
//
// The loop is sequential: every start depends on the previous end plus transit.
// Invalid events are kept. Malformed coordinates or a malformed day start fail
// the whole run and nothing is returned.
func ScheduleDay(ctx context.Context, events []domain.Event, cfg ScheduleConfig) (*domain.DaySchedule, error) {
	out := &domain.DaySchedule{
		Date:     cfg.Date,
		Events:   []domain.ScheduledEvent{},
		Warnings: []domain.Warning{},
	}
	if len(events) == 0 {
		return out, nil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dayStart := cfg.DayStartTime
	if strings.TrimSpace(dayStart) == "" {
		dayStart = DefaultDayStartTime
	}
	cursor, err := timeofday.ParseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("schedule day: day start time: %w", err)
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = DefaultTimezone
	}
	buffer := max(0, cfg.TransitionBufferMin)

	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b domain.Event) int {
		return cmp.Compare(a.Order, b.Order)
	})

	// Coordinates are checked up front so a bad stop fails the run before any routing.
	locations := make([]*domain.Coordinates, len(sorted))
	for i, ev := range sorted {
		if !ev.Place.HasCoordinates() {
			continue
		}
		loc, err := ev.Place.Location()
		if err != nil {
			return nil, fmt.Errorf("schedule day: event %d (place %q): %w", i, ev.PlaceID, err)
		}
		locations[i] = &loc
	}

	// Routing must not be abandoned halfway by a cancelled caller.
	routeCtx := context.WithoutCancel(ctx)

	inbound := domain.StaticRoute()
	for i, ev := range sorted {
		duration := EventDurationMin(ev)
		start := cursor
		end := start + duration
		startClock := timeofday.FormatClock(start)

		var closure *domain.Closure
		if cfg.Closures != nil {
			closure = cfg.Closures[ev.PlaceID]
		}

		v := ValidateTimeWindowFor(ev.Place, cfg.Date, startClock, duration, closure, timezone)
		if ev.Place == nil {
			out.Warnings = append(out.Warnings, domain.Warning{
				Code:       domain.WarningPlaceNotFound,
				Message:    fmt.Sprintf("place %q not found", ev.PlaceID),
				EventIndex: i,
			})
		}
		if end > timeofday.MaxMinute {
			// Clock strings clamp to 23:59; the real offset is kept here.
			out.Warnings = append(out.Warnings, domain.Warning{
				Code:       domain.WarningDayOverflow,
				Message:    fmt.Sprintf("event runs past the end of the day: starts at minute %d, ends at minute %d", start, end),
				EventIndex: i,
			})
		}

		out.Events = append(out.Events, domain.ScheduledEvent{
			Event:            ev,
			OrderIndex:       i,
			StartTime:        startClock,
			EndTime:          timeofday.FormatClock(end),
			TravelTimeMin:    inbound.TravelTimeMin,
			DistanceKm:       inbound.DistanceKm,
			Provider:         inbound.Provider,
			ValidationStatus: v.Status(),
			ValidationReason: v.Reason,
		})

		inbound = domain.StaticRoute()
		if i+1 < len(sorted) && locations[i] != nil && locations[i+1] != nil {
			route, err := resolveLeg(routeCtx, cfg.Resolve, *locations[i], *locations[i+1])
			switch {
			case errors.Is(err, domain.ErrInvalidCoordinates):
				return nil, fmt.Errorf("schedule day: transit %d -> %d: %w", i, i+1, err)
			case err != nil:
				logger.Warn("transit unavailable, using static leg", zap.Int("event_index", i+1), zap.Error(err))
				out.Warnings = append(out.Warnings, domain.Warning{
					Code:       domain.WarningRouteUnavailable,
					Message:    err.Error(),
					EventIndex: i + 1,
				})
			default:
				inbound = route
				if route.Provider == domain.ProviderHaversine && route.FallbackReason != "" {
					out.Warnings = append(out.Warnings, domain.Warning{
						Code:       domain.WarningRouteFallback,
						Message:    route.FallbackReason,
						EventIndex: i + 1,
					})
				}
			}
		}

		cursor = end + inbound.TravelTimeMin + buffer
	}

	return out, nil
}

func resolveLeg(ctx context.Context, resolve ResolveFunc, from, to domain.Coordinates) (domain.Route, error) {
	if resolve == nil {
		return domain.Route{}, fmt.Errorf("no route resolver configured: %w", domain.ErrRouteProviderUnavailable)
	}
	return resolve(ctx, from, to)
}
