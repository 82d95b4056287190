package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether both axes are finite numbers.
func (c Coordinates) Valid() bool {
	return isFinite(c.Lon) && isFinite(c.Lat)
}

// Hash renders the coordinate as a 6-decimal fixed-point key, used by the route cache.
func (c Coordinates) Hash() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

// Build coordinates from a [lon, lat] pair as stored on catalog places.
func CoordinatesFromList(list []float64) (Coordinates, error) {
	if len(list) != 2 {
		return Coordinates{}, fmt.Errorf("coordinates from list: expected 2 values, got %d: %w", len(list), ErrInvalidCoordinates)
	}

	c := Coordinates{Lon: list[0], Lat: list[1]}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("coordinates from list: non-finite value in %v: %w", list, ErrInvalidCoordinates)
	}

	return c, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
