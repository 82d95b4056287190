package domain

type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "VALID"
	ValidationInvalid ValidationStatus = "INVALID"
)

// Reason codes attached to an INVALID ScheduledEvent.
const (
	ReasonPlaceNotFound       = "PLACE_NOT_FOUND"
	ReasonInvalidTimeFormat   = "INVALID_TIME_FORMAT"
	ReasonInvalidDate         = "INVALID_DATE"
	ReasonClosedOnDay         = "CLOSED_ON_DAY"
	ReasonClosedSpecialDate   = "CLOSED_SPECIAL_DATE"
	ReasonInvalidClosureRange = "INVALID_CLOSURE_RANGE"
	ReasonInvalidPlaceHours   = "INVALID_PLACE_HOURS"
	ReasonClosedAtTime        = "CLOSED_AT_TIME"
)

// Candidate stop for a single day.
// Place is hydrated from the catalog before scheduling; nil means it was not found.
type Event struct {
	ID          string `json:"id"`
	PlaceID     string `json:"placeId"`
	Place       *Place `json:"place,omitempty"`
	Order       int    `json:"order"`
	DurationMin *int   `json:"durationMin,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Event annotated with its assigned slot, inbound transit and validation outcome.
// TravelTimeMin/DistanceKm/Provider describe the leg from the previous event.
type ScheduledEvent struct {
	Event
	OrderIndex       int              `json:"orderIndex"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	TravelTimeMin    int              `json:"travelTimeMin"`
	DistanceKm       float64          `json:"distanceKm"`
	Provider         Provider         `json:"provider"`
	ValidationStatus ValidationStatus `json:"validationStatus"`
	ValidationReason string           `json:"validationReason,omitempty"`
}

// Non-fatal issue recorded during a scheduling run.
type Warning struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	EventIndex int    `json:"eventIndex"`
}

const (
	WarningRouteFallback    = "ROUTE_FALLBACK"
	WarningRouteUnavailable = "ROUTE_UNAVAILABLE"
	WarningPlaceNotFound    = "PLACE_NOT_FOUND"
	WarningDayOverflow      = "DAY_OVERFLOW"

	// Day-level warning, reported with EventIndex -1.
	WarningClosuresUnavailable = "CLOSURES_UNAVAILABLE"
)

// Output of one scheduling run for one day. Never mutated after it is returned.
type DaySchedule struct {
	Date     string           `json:"date"`
	Events   []ScheduledEvent `json:"events"`
	Warnings []Warning        `json:"warnings"`
}
