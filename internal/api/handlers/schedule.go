package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/api/dto"
	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/services"
)

const (
	maxEventsPerDay = 50
	maxDaysPerCall  = 31
)

type Scheduler interface {
	Schedule(ctx context.Context, req services.DayRequest) (*domain.DaySchedule, error)
	ScheduleDays(ctx context.Context, reqs []services.DayRequest) ([]*domain.DaySchedule, error)
}

type ScheduleHandler struct {
	Scheduler Scheduler
	Logger    *zap.Logger
}

// Day schedules a single day.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ScheduleDayRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	dayReq, err := toDayRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	day, err := h.Scheduler.Schedule(r.Context(), dayReq)
	if err != nil {
		writeServiceError(w, r, h.Logger, "schedule day", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewDayScheduleResponse(day))
}

// Days schedules several independent days in one call.
func (h *ScheduleHandler) Days(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ScheduleDaysRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	if len(req.Days) == 0 || len(req.Days) > maxDaysPerCall {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("days must contain between 1 and %d entries", maxDaysPerCall))
		return
	}

	dayReqs := make([]services.DayRequest, 0, len(req.Days))
	for i, d := range req.Days {
		dr, err := toDayRequest(d)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("days[%d]: %v", i, err))
			return
		}
		dayReqs = append(dayReqs, dr)
	}

	days, err := h.Scheduler.ScheduleDays(r.Context(), dayReqs)
	if err != nil {
		writeServiceError(w, r, h.Logger, "schedule days", err)
		return
	}

	res := dto.ListDayScheduleResponse{Days: make([]dto.DayScheduleResponse, 0, len(days))}
	for _, d := range days {
		res.Days = append(res.Days, dto.NewDayScheduleResponse(d))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toDayRequest(req dto.ScheduleDayRequest) (services.DayRequest, error) {
	if strings.TrimSpace(req.Date) == "" {
		return services.DayRequest{}, fmt.Errorf("date is required")
	}
	if len(req.Events) > maxEventsPerDay {
		return services.DayRequest{}, fmt.Errorf("events must contain at most %d entries", maxEventsPerDay)
	}

	events := make([]domain.Event, 0, len(req.Events))
	for i, e := range req.Events {
		ev := e.ToDomain()
		if ev.PlaceID == "" {
			return services.DayRequest{}, fmt.Errorf("events[%d]: place_id is required", i)
		}
		events = append(events, ev)
	}

	return services.DayRequest{
		ItineraryID:         req.ItineraryID,
		DayNumber:           req.DayNumber,
		Date:                req.Date,
		Events:              events,
		DayStartTime:        req.DayStartTime,
		TransitionBufferMin: req.TransitionBufferMin,
		Trigger:             req.Trigger,
	}, nil
}
