package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradise-yatra/data-management-system-sub003/internal/api/dto"
	"github.com/paradise-yatra/data-management-system-sub003/internal/config"
	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/services"
)

type fakePricing struct {
	snap     *domain.PricingSnapshot
	err      error
	gotID    string
	override *float64
}

func (f *fakePricing) Recalculate(_ context.Context, id string, override *float64) (*domain.PricingSnapshot, error) {
	f.gotID, f.override = id, override
	return f.snap, f.err
}

type fakeRoutes struct {
	route services.CachedRoute
	err   error
}

func (f *fakeRoutes) ResolveWithCache(context.Context, domain.Coordinates, domain.Coordinates) (services.CachedRoute, error) {
	return f.route, f.err
}

func newTestServer(t *testing.T, pricing *fakePricing, routes *fakeRoutes) *httptest.Server {
	t.Helper()

	resolve := func(context.Context, domain.Coordinates, domain.Coordinates) (domain.Route, error) {
		return domain.Route{TravelTimeMin: 15, DistanceKm: 5, Provider: domain.ProviderStatic}, nil
	}
	scheduler := services.NewSchedulerService(nil, resolve, nil, config.DefaultSettings(), nil)

	srv := httptest.NewServer(NewRouter(Deps{Scheduler: scheduler, Pricing: pricing, Routes: routes}, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakePricing{}, &fakeRoutes{})

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	res2, err := http.Post(srv.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res2.StatusCode)
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, &fakePricing{}, &fakeRoutes{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "abc-123", res.Header.Get("X-Request-ID"))
}

const twoEventDay = `{
	"date": "2026-03-02",
	"events": [
		{"id": "e2", "order": 1, "place": {"id": "qutub", "coordinates": [77.1855, 28.5245], "avg_duration_min": 60, "opens_at": "07:00", "closes_at": "17:00"}},
		{"id": "e1", "order": 0, "place": {"id": "gate", "coordinates": [77.2295, 28.6129], "avg_duration_min": 60, "opens_at": "00:00", "closes_at": "23:59"}}
	]
}`

func TestScheduleDay(t *testing.T) {
	srv := newTestServer(t, &fakePricing{}, &fakeRoutes{})

	res, err := http.Post(srv.URL+"/v1/schedule/day", "application/json", strings.NewReader(twoEventDay))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body dto.DayScheduleResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	require.Len(t, body.Events, 2)
	assert.Equal(t, "e1", body.Events[0].EventID)
	assert.Equal(t, "gate", body.Events[0].PlaceID)
	assert.Equal(t, "09:00", body.Events[0].StartTime)
	assert.Equal(t, "10:25", body.Events[1].StartTime)
	assert.Equal(t, "11:25", body.Events[1].EndTime)
	assert.Equal(t, 15, body.Events[1].TravelTimeMin)
	assert.Equal(t, "VALID", body.Events[1].ValidationStatus)
	assert.Empty(t, body.Warnings)
}

func TestScheduleDay_BadRequests(t *testing.T) {
	srv := newTestServer(t, &fakePricing{}, &fakeRoutes{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: `{`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"date": "2026-03-02", "hub": "x"}`, want: http.StatusBadRequest},
		{name: "missing date", body: `{"events": []}`, want: http.StatusBadRequest},
		{name: "missing place id", body: `{"date": "2026-03-02", "events": [{"id": "e1"}]}`, want: http.StatusBadRequest},
		{name: "bad day start", body: `{"date": "2026-03-02", "day_start_time": "9am", "events": [{"place_id": "p"}]}`, want: http.StatusBadRequest},
		{
			name: "bad coordinates",
			body: `{"date": "2026-03-02", "events": [{"place": {"id": "p", "coordinates": [1]}}]}`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Post(srv.URL+"/v1/schedule/day", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestScheduleDays(t *testing.T) {
	srv := newTestServer(t, &fakePricing{}, &fakeRoutes{})

	body := fmt.Sprintf(`{"days": [%s, %s]}`, twoEventDay, twoEventDay)
	res, err := http.Post(srv.URL+"/v1/schedule/days", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out dto.ListDayScheduleResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Len(t, out.Days, 2)
	assert.Len(t, out.Days[1].Events, 2)

	empty, err := http.Post(srv.URL+"/v1/schedule/days", "application/json", strings.NewReader(`{"days": []}`))
	require.NoError(t, err)
	defer empty.Body.Close()
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)
}

func TestPricing(t *testing.T) {
	pricing := &fakePricing{snap: &domain.PricingSnapshot{
		Subtotal:           3000,
		Markup:             domain.Markup{Percentage: 20, Amount: 600},
		Total:              3600,
		Currency:           "INR",
		CalculationVersion: 1,
		CalculatedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Breakdown: domain.PricingBreakdown{
			ByDay:      []domain.DayBreakdown{{DayNumber: 1, Total: 3000, Categories: map[domain.Category]float64{domain.CategoryHotel: 2000}}},
			ByCategory: map[domain.Category]float64{domain.CategoryHotel: 2000, domain.CategoryActivities: 1000},
		},
	}}
	srv := newTestServer(t, pricing, &fakeRoutes{})

	res, err := http.Post(srv.URL+"/v1/itineraries/it-9/pricing", "application/json", strings.NewReader(`{"markup_percentage": 12.5}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out dto.PricingResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, 3600.0, out.Total)
	assert.Equal(t, 1000.0, out.ByCategory["activities"])
	assert.Equal(t, "it-9", pricing.gotID)
	require.NotNil(t, pricing.override)
	assert.Equal(t, 12.5, *pricing.override)

	noBody, err := http.Post(srv.URL+"/v1/itineraries/it-9/pricing", "application/json", nil)
	require.NoError(t, err)
	defer noBody.Body.Close()
	assert.Equal(t, http.StatusOK, noBody.StatusCode)
	assert.Nil(t, pricing.override)
}

func TestPricing_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("wrap: %w", domain.ErrItineraryLocked), want: http.StatusLocked},
		{err: fmt.Errorf("wrap: %w", domain.ErrPricingConflict), want: http.StatusConflict},
		{err: fmt.Errorf("wrap: %w", domain.ErrNotFound), want: http.StatusNotFound},
		{err: fmt.Errorf("wrap: %w", domain.ErrInvalidMarkup), want: http.StatusBadRequest},
		{err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			srv := newTestServer(t, &fakePricing{err: tt.err}, &fakeRoutes{})

			res, err := http.Post(srv.URL+"/v1/itineraries/it-1/pricing", "application/json", nil)
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestRoutes(t *testing.T) {
	routes := &fakeRoutes{route: services.CachedRoute{
		Route:  domain.Route{DistanceKm: 10.73, TravelTimeMin: 22, Provider: domain.ProviderHaversine},
		Cached: true,
	}}
	srv := newTestServer(t, &fakePricing{}, routes)

	res, err := http.Get(srv.URL + "/v1/routes?from=77.2295,28.6129&to=77.1855,28.5245")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out dto.RouteResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, 22, out.TravelTimeMin)
	assert.Equal(t, "HAVERSINE", out.Provider)
	assert.True(t, out.Cached)
	assert.Equal(t, []float64{77.2295, 28.6129}, out.From)

	for _, q := range []string{"from=1,2", "from=a,b&to=1,2", "from=NaN,1&to=1,2", "from=1,2,3&to=1,2"} {
		bad, err := http.Get(srv.URL + "/v1/routes?" + q)
		require.NoError(t, err)
		bad.Body.Close()
		assert.Equal(t, http.StatusBadRequest, bad.StatusCode, q)
	}
}
