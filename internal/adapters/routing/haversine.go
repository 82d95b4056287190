package routing

import (
	"context"
	"math"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

const (
	earthRadiusKm   = 6371.0
	DefaultSpeedKmh = 30.0
)

// HaversineProvider estimates routes from great-circle distance at a constant speed.
// It never fails and is the terminal strategy of the resolver chain.
type HaversineProvider struct {
	SpeedKmh float64
}

func NewHaversineProvider(speedKmh float64) *HaversineProvider {
	if !finite(speedKmh) || speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return &HaversineProvider{SpeedKmh: speedKmh}
}

func (h *HaversineProvider) Resolve(_ context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	return h.Estimate(origin, destination), nil
}

// Estimate returns the fallback route. Travel time is rounded up and only
// floored at one minute when the distance is non-zero.
func (h *HaversineProvider) Estimate(origin, destination domain.Coordinates) domain.Route {
	speed := h.SpeedKmh
	if !finite(speed) || speed <= 0 {
		speed = DefaultSpeedKmh
	}

	distanceKm := Round2(HaversineKm(origin, destination))

	travel := 0
	if distanceKm > 0 {
		travel = max(1, int(math.Ceil(distanceKm/speed*60)))
	}

	return domain.Route{
		DistanceKm:    distanceKm,
		TravelTimeMin: travel,
		Provider:      domain.ProviderHaversine,
	}
}

// HaversineKm is the great-circle distance between two points in kilometres.
func HaversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
