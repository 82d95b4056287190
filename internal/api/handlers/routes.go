package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/api/dto"
	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/services"
)

type RouteLookup interface {
	ResolveWithCache(ctx context.Context, origin, destination domain.Coordinates) (services.CachedRoute, error)
}

type RouteHandler struct {
	Routes RouteLookup
	Logger *zap.Logger
}

// Get returns the cached or freshly resolved route between ?from=lon,lat and ?to=lon,lat.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	from, err := parseLonLat(q.Get("from"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parseLonLat(q.Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	route, err := h.Routes.ResolveWithCache(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, h.Logger, "resolve route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		From:           from.CoordsToList(),
		To:             to.CoordsToList(),
		DistanceKm:     route.DistanceKm,
		TravelTimeMin:  route.TravelTimeMin,
		Provider:       string(route.Provider),
		Cached:         route.Cached,
		FallbackReason: route.FallbackReason,
	})
}

// parseLonLat reads "lon,lat".
func parseLonLat(s string) (domain.Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("expected lon,lat: %w", domain.ErrInvalidCoordinates)
	}

	vals := make([]float64, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("parse %q: %w", p, domain.ErrInvalidCoordinates)
		}
		vals[i] = v
	}

	return domain.CoordinatesFromList(vals)
}
