package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradise-yatra/data-management-system-sub003/internal/adapters/routing"
	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

var (
	indiaGate  = domain.Coordinates{Lon: 77.2295, Lat: 28.6129}
	qutubMinar = domain.Coordinates{Lon: 77.1855, Lat: 28.5245}
)

func TestLogisticsResolver_PrimaryProvider(t *testing.T) {
	osrm := routing.NewMockRouteProvider([]routing.MockPair{
		{From: indiaGate, To: qutubMinar, Route: domain.Route{DistanceKm: 14.2, TravelTimeMin: 31, Provider: domain.ProviderOSRM}},
	})
	r := NewLogisticsResolver(routing.NewHaversineProvider(30), nil, osrm)

	route, err := r.Resolve(context.Background(), indiaGate, qutubMinar)
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderOSRM, route.Provider)
	assert.Equal(t, 31, route.TravelTimeMin)
	assert.Equal(t, 14.2, route.DistanceKm)
	assert.Empty(t, route.FallbackReason)
	assert.Equal(t, 1, osrm.Calls())
}

func TestLogisticsResolver_FallsBackToHaversine(t *testing.T) {
	osrm := routing.NewMockRouteProvider(nil)
	r := NewLogisticsResolver(routing.NewHaversineProvider(30), nil, osrm)

	route, err := r.Resolve(context.Background(), indiaGate, qutubMinar)
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderHaversine, route.Provider)
	assert.InDelta(t, 10.74, route.DistanceKm, 0.05)
	assert.Equal(t, 22, route.TravelTimeMin)
	assert.NotEmpty(t, route.FallbackReason)
	assert.Equal(t, 1, osrm.Calls())
}

func TestLogisticsResolver_ChainOrder(t *testing.T) {
	failing := routing.NewMockRouteProvider(nil)
	second := routing.NewMockRouteProvider([]routing.MockPair{
		{From: indiaGate, To: qutubMinar, Route: domain.Route{DistanceKm: 12, TravelTimeMin: 25, Provider: domain.ProviderOSRM}},
	})
	r := NewLogisticsResolver(routing.NewHaversineProvider(30), nil, failing, second)

	route, err := r.Resolve(context.Background(), indiaGate, qutubMinar)
	require.NoError(t, err)

	assert.Equal(t, 25, route.TravelTimeMin)
	assert.Equal(t, 1, failing.Calls())
	assert.Equal(t, 1, second.Calls())
}

func TestLogisticsResolver_SamePointIsStatic(t *testing.T) {
	osrm := routing.NewMockRouteProvider(nil)
	r := NewLogisticsResolver(routing.NewHaversineProvider(30), nil, osrm)

	route, err := r.Resolve(context.Background(), indiaGate, indiaGate)
	require.NoError(t, err)

	assert.Equal(t, domain.StaticRoute(), route)
	assert.Equal(t, 0, osrm.Calls())
}

func TestLogisticsResolver_InvalidCoordinates(t *testing.T) {
	osrm := routing.NewMockRouteProvider(nil)
	r := NewLogisticsResolver(routing.NewHaversineProvider(30), nil, osrm)

	_, err := r.Resolve(context.Background(), domain.Coordinates{Lon: math.NaN(), Lat: 28.6}, qutubMinar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCoordinates))
	assert.Equal(t, 0, osrm.Calls())
}

func TestLogisticsResolver_NoFallback(t *testing.T) {
	r := NewLogisticsResolver(nil, nil, routing.NewMockRouteProvider(nil))

	_, err := r.Resolve(context.Background(), indiaGate, qutubMinar)
	require.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
}
