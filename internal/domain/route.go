package domain

import "time"

// Identifies which strategy produced a route figure.
type Provider string

const (
	ProviderOSRM      Provider = "OSRM"
	ProviderHaversine Provider = "HAVERSINE"
	ProviderStatic    Provider = "STATIC"
)

// Distance and travel time between two points.
type Route struct {
	DistanceKm    float64  `json:"distanceKm"`
	TravelTimeMin int      `json:"travelTimeMin"`
	Provider      Provider `json:"provider"`
	// Set when the route came from a fallback strategy after a provider failure.
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// StaticRoute is the zero-distance no-op route.
func StaticRoute() Route {
	return Route{Provider: ProviderStatic}
}

// Persisted route keyed by a direction-sensitive pair of coordinate hashes.
// Entries are logically deleted by expiry and never actively evicted.
type RouteCacheEntry struct {
	OriginHash      string
	DestinationHash string
	Route           Route
	ComputedAt      time.Time
	ExpiresAt       time.Time
}

// Fresh reports whether the entry is still valid at now (expiry strictly in the future).
func (e *RouteCacheEntry) Fresh(now time.Time) bool {
	return e != nil && e.ExpiresAt.After(now)
}
