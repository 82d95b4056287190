package ports

import (
	"context"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// Contract for one routing strategy in the logistics resolver chain.
type RouteProvider interface {
	// Return distance and travel time between two validated, distinct points.
	Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error)
}
