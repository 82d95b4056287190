package dto

type RouteResponse struct {
	From           []float64 `json:"from"`
	To             []float64 `json:"to"`
	DistanceKm     float64   `json:"distance_km"`
	TravelTimeMin  int       `json:"travel_time_min"`
	Provider       string    `json:"provider"`
	Cached         bool      `json:"cached"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
}
