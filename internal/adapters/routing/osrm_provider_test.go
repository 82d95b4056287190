package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

var (
	delhiGate = domain.Coordinates{Lon: 77.229509, Lat: 28.612912}
	qutub     = domain.Coordinates{Lon: 77.185456, Lat: 28.524428}
)

func newTestProvider(t *testing.T, srv *httptest.Server, timeout time.Duration) *OSRMProvider {
	t.Helper()
	p, err := NewOSRMProvider(srv.URL, timeout, nil, WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	return p
}

func TestOSRMResolveSuccess(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":12345.678,"duration":1530}]}`))
	}))
	defer srv.Close()

	route, err := newTestProvider(t, srv, time.Second).Resolve(context.Background(), delhiGate, qutub)
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/driving/77.229509,28.612912;77.185456,28.524428", gotPath)
	assert.Equal(t, "overview=false", gotQuery)
	assert.Equal(t, domain.Route{DistanceKm: 12.35, TravelTimeMin: 26, Provider: domain.ProviderOSRM}, route)
}

func TestOSRMResolveFloorsTravelTimeAtOneMinute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":0,"duration":0}]}`))
	}))
	defer srv.Close()

	route, err := newTestProvider(t, srv, time.Second).Resolve(context.Background(), delhiGate, qutub)
	require.NoError(t, err)
	assert.Equal(t, 1, route.TravelTimeMin)
	assert.Equal(t, 0.0, route.DistanceKm)
}

func TestOSRMResolveFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-ok code": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
		},
		"empty routes": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[]}`))
		},
		"missing duration": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":10}]}`))
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad", http.StatusBadRequest)
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := newTestProvider(t, srv, time.Second).Resolve(context.Background(), delhiGate, qutub)
			assert.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
		})
	}
}

func TestOSRMRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":1000,"duration":120}]}`))
	}))
	defer srv.Close()

	route, err := newTestProvider(t, srv, time.Second).Resolve(context.Background(), delhiGate, qutub)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, route.TravelTimeMin)
}

func TestOSRMResolveIsBoundedByTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestProvider(t, srv, 50*time.Millisecond).Resolve(context.Background(), delhiGate, qutub)

	assert.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewOSRMProviderRequiresBaseURL(t *testing.T) {
	_, err := NewOSRMProvider("  ", 0, nil)
	assert.Error(t, err)
}
