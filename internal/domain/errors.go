package domain

import "errors"

var (
	// Malformed input: fatal for the scheduling call that received it.
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrInvalidTimeFormat   = errors.New("invalid time format")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidClosureRange = errors.New("invalid closure range")
	ErrInvalidPlaceHours   = errors.New("invalid place hours")
	ErrInvalidMarkup       = errors.New("invalid markup percentage")

	// Business rule rejections.
	ErrItineraryLocked = errors.New("itinerary is locked")
	ErrPricingConflict = errors.New("itinerary pricing was modified concurrently")
	ErrNotFound        = errors.New("not found")

	// Internal only: always converted to a fallback route, never surfaced.
	ErrRouteProviderUnavailable = errors.New("route provider unavailable")
)
