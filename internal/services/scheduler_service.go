package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paradise-yatra/data-management-system-sub003/internal/config"
	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
	"github.com/paradise-yatra/data-management-system-sub003/internal/timeofday"
)

// Days scheduled in parallel by ScheduleDays.
const maxConcurrentDays = 4

// One day to schedule. Zero values fall back to the engine settings.
type DayRequest struct {
	ItineraryID         string
	DayNumber           int
	Date                string
	Events              []domain.Event
	DayStartTime        string
	TransitionBufferMin *int
	Trigger             string
}

// SchedulerService hydrates events from the place catalog and runs ScheduleDay.
type SchedulerService struct {
	catalog  ports.PlaceCatalog
	resolve  ResolveFunc
	runs     ports.RunLogger
	settings config.Settings
	logger   *zap.Logger

	NewID func() string
}

func NewSchedulerService(catalog ports.PlaceCatalog, resolve ResolveFunc, runs ports.RunLogger, settings config.Settings, logger *zap.Logger) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulerService{
		catalog:  catalog,
		resolve:  resolve,
		runs:     runs,
		settings: settings,
		logger:   logger,
		NewID:    newRunID,
	}
}

func newRunID() string { return uuid.NewString() }

func logRun(ctx context.Context, runs ports.RunLogger, meta ports.RunMetadata) {
	if runs == nil {
		return
	}
	runs.LogRun(context.WithoutCancel(ctx), meta)
}

// Config builds the ScheduleConfig for req from the engine settings.
func (s *SchedulerService) Config(req DayRequest) ScheduleConfig {
	cfg := ScheduleConfig{
		Date:                req.Date,
		Timezone:            s.settings.LogicTimezone,
		DayStartTime:        s.settings.DayStartTime,
		TransitionBufferMin: s.settings.TransitionBufferMin,
		Resolve:             s.resolve,
		Logger:              s.logger,
	}
	if req.DayStartTime != "" {
		cfg.DayStartTime = req.DayStartTime
	}
	if req.TransitionBufferMin != nil {
		cfg.TransitionBufferMin = *req.TransitionBufferMin
	}
	return cfg
}

// Schedule runs one day.
func (s *SchedulerService) Schedule(ctx context.Context, req DayRequest) (day *domain.DaySchedule, err error) {
	defer obs.Time(ctx, s.logger, "services.Schedule")(&err)

	started := time.Now()
	meta := ports.RunMetadata{
		RunID:        s.NewID(),
		Operation:    "schedule_day",
		Trigger:      req.Trigger,
		ItineraryID:  req.ItineraryID,
		DayNumber:    req.DayNumber,
		InputCount:   len(req.Events),
		PhaseTimings: map[string]time.Duration{},
		StartedAt:    started,
	}
	if meta.Trigger == "" {
		meta.Trigger = "api"
	}
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			meta.Error = err.Error()
		}
		if day != nil {
			meta.OutputCount = len(day.Events)
			for _, w := range day.Warnings {
				meta.Warnings = append(meta.Warnings, w.Code)
			}
		}
		obs.Count(ctx, obs.M().ScheduleRuns, "outcome", outcome)
		obs.M().ScheduleDuration.Record(ctx, time.Since(started).Seconds())
		logRun(ctx, s.runs, meta)
	}()

	cfg := s.Config(req)

	hydrateStart := time.Now()
	events, closures, warnings, err := s.hydrate(ctx, req.Events, calendarDate(req.Date, cfg.Timezone))
	if err != nil {
		return nil, fmt.Errorf("schedule day %d: %w", req.DayNumber, err)
	}
	cfg.Closures = closures
	meta.PhaseTimings["hydrate"] = time.Since(hydrateStart)

	scheduleStart := time.Now()
	day, err = ScheduleDay(ctx, events, cfg)
	if err != nil {
		return nil, fmt.Errorf("schedule day %d: %w", req.DayNumber, err)
	}
	meta.PhaseTimings["schedule"] = time.Since(scheduleStart)
	if len(warnings) > 0 {
		day.Warnings = append(warnings, day.Warnings...)
	}

	return day, nil
}

// ScheduleDays runs several days concurrently. Each day is still sequential
// internally. Results are returned in request order; the first error wins.
func (s *SchedulerService) ScheduleDays(ctx context.Context, reqs []DayRequest) ([]*domain.DaySchedule, error) {
	out := make([]*domain.DaySchedule, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDays)

	for i, req := range reqs {
		g.Go(func() error {
			day, err := s.Schedule(gctx, req)
			if err != nil {
				return err
			}
			out[i] = day
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("schedule days: %w", err)
	}
	return out, nil
}

// hydrate fills missing places from the catalog and loads the day's closures.
// A closure lookup failure is reported as a day-level warning and scheduling
// continues without closures.
func (s *SchedulerService) hydrate(ctx context.Context, events []domain.Event, date string) ([]domain.Event, map[string]*domain.Closure, []domain.Warning, error) {
	out := make([]domain.Event, len(events))
	copy(out, events)

	if s.catalog == nil {
		return out, nil, nil, nil
	}

	var missing, all []string
	for _, ev := range out {
		if ev.PlaceID == "" {
			continue
		}
		all = append(all, ev.PlaceID)
		if ev.Place == nil {
			missing = append(missing, ev.PlaceID)
		}
	}

	if len(missing) > 0 {
		places, err := s.catalog.GetPlaces(ctx, missing)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("hydrate places: %w", err)
		}
		for i := range out {
			if out[i].Place == nil {
				out[i].Place = places[out[i].PlaceID]
			}
		}
	}

	var (
		closures map[string]*domain.Closure
		warnings []domain.Warning
	)
	if len(all) > 0 {
		c, err := s.catalog.GetClosures(ctx, all, date)
		if err != nil {
			s.logger.Warn("closure lookup failed, scheduling without closures",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.String("date", date),
				zap.Error(err),
			)
			warnings = append(warnings, domain.Warning{
				Code:       domain.WarningClosuresUnavailable,
				Message:    fmt.Sprintf("closures for %s unavailable: %v", date, err),
				EventIndex: -1,
			})
		} else {
			closures = c
		}
	}

	return out, closures, warnings, nil
}

// calendarDate is the catalog's closure key for date: instants are converted
// into timezone first.
func calendarDate(date, timezone string) string {
	t, instant, err := timeofday.ParseDate(date)
	if err != nil {
		return date
	}
	if instant {
		t = timeofday.InLocation(t, timezone)
	}
	return t.Format(time.DateOnly)
}
