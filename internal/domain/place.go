package domain

// Represents a point of interest from the external catalog.
// A Place is read-only for the duration of a scheduling run.
type Place struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Coordinates    []float64 `json:"coordinates,omitempty"` // [lon, lat]
	AvgDurationMin float64   `json:"avgDurationMin"`
	OpensAt        string    `json:"opensAt"`
	ClosesAt       string    `json:"closesAt"`
	ClosedDays     []string  `json:"closedDays,omitempty"`
}

// HasCoordinates reports whether the place exposes a location at all.
// It does not check that the location is well formed.
func (p *Place) HasCoordinates() bool {
	return p != nil && len(p.Coordinates) > 0
}

// Location returns the place coordinates, or ErrInvalidCoordinates when malformed.
func (p *Place) Location() (Coordinates, error) {
	return CoordinatesFromList(p.Coordinates)
}

// A clock range during which a place is unavailable, "HH:MM" bounds.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Date-specific override for a Place.
type Closure struct {
	PlaceID         string      `json:"placeId"`
	Date            string      `json:"date"`
	IsClosedFullDay bool        `json:"isClosedFullDay"`
	ClosedRanges    []TimeRange `json:"closedRanges,omitempty"`
}
