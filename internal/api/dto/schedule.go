package dto

import "github.com/paradise-yatra/data-management-system-sub003/internal/domain"

type PlaceRequest struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Coordinates    []float64 `json:"coordinates"`
	AvgDurationMin float64   `json:"avg_duration_min"`
	OpensAt        string    `json:"opens_at"`
	ClosesAt       string    `json:"closes_at"`
	ClosedDays     []string  `json:"closed_days"`
}

type EventRequest struct {
	ID          string        `json:"id"`
	PlaceID     string        `json:"place_id"`
	Order       int           `json:"order"`
	DurationMin *int          `json:"duration_min"`
	Notes       string        `json:"notes"`
	Place       *PlaceRequest `json:"place"`
}

type ScheduleDayRequest struct {
	ItineraryID         string         `json:"itinerary_id"`
	DayNumber           int            `json:"day_number"`
	Date                string         `json:"date"`
	DayStartTime        string         `json:"day_start_time"`
	TransitionBufferMin *int           `json:"transition_buffer_min"`
	Trigger             string         `json:"trigger"`
	Events              []EventRequest `json:"events"`
}

type ScheduleDaysRequest struct {
	Days []ScheduleDayRequest `json:"days"`
}

type ScheduledEventResponse struct {
	OrderIndex       int     `json:"order_index"`
	EventID          string  `json:"event_id"`
	PlaceID          string  `json:"place_id"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	TravelTimeMin    int     `json:"travel_time_min"`
	DistanceKm       float64 `json:"distance_km"`
	Provider         string  `json:"provider"`
	ValidationStatus string  `json:"validation_status"`
	ValidationReason string  `json:"validation_reason,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

type WarningResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	EventIndex int    `json:"event_index"`
}

type DayScheduleResponse struct {
	Date     string                   `json:"date"`
	Events   []ScheduledEventResponse `json:"events"`
	Warnings []WarningResponse        `json:"warnings"`
}

type ListDayScheduleResponse struct {
	Days []DayScheduleResponse `json:"days"`
}

func (p *PlaceRequest) ToDomain() *domain.Place {
	if p == nil {
		return nil
	}
	return &domain.Place{
		ID:             p.ID,
		Name:           p.Name,
		Coordinates:    p.Coordinates,
		AvgDurationMin: p.AvgDurationMin,
		OpensAt:        p.OpensAt,
		ClosesAt:       p.ClosesAt,
		ClosedDays:     p.ClosedDays,
	}
}

func (e EventRequest) ToDomain() domain.Event {
	ev := domain.Event{
		ID:          e.ID,
		PlaceID:     e.PlaceID,
		Place:       e.Place.ToDomain(),
		Order:       e.Order,
		DurationMin: e.DurationMin,
		Notes:       e.Notes,
	}
	if ev.PlaceID == "" && ev.Place != nil {
		ev.PlaceID = ev.Place.ID
	}
	return ev
}

func NewDayScheduleResponse(day *domain.DaySchedule) DayScheduleResponse {
	res := DayScheduleResponse{
		Date:     day.Date,
		Events:   make([]ScheduledEventResponse, 0, len(day.Events)),
		Warnings: make([]WarningResponse, 0, len(day.Warnings)),
	}
	for _, ev := range day.Events {
		res.Events = append(res.Events, ScheduledEventResponse{
			OrderIndex:       ev.OrderIndex,
			EventID:          ev.ID,
			PlaceID:          ev.PlaceID,
			StartTime:        ev.StartTime,
			EndTime:          ev.EndTime,
			TravelTimeMin:    ev.TravelTimeMin,
			DistanceKm:       ev.DistanceKm,
			Provider:         string(ev.Provider),
			ValidationStatus: string(ev.ValidationStatus),
			ValidationReason: ev.ValidationReason,
			Notes:            ev.Notes,
		})
	}
	for _, w := range day.Warnings {
		res.Warnings = append(res.Warnings, WarningResponse{
			Code:       w.Code,
			Message:    w.Message,
			EventIndex: w.EventIndex,
		})
	}
	return res
}
