package ports

import (
	"context"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// Port: read-only access to the external place catalog.
type PlaceCatalog interface {
	// Return places keyed by id. Unknown ids are absent from the map.
	GetPlaces(ctx context.Context, ids []string) (map[string]*domain.Place, error)
	// Return closures for the given places on a calendar date, keyed by place id.
	GetClosures(ctx context.Context, placeIDs []string, date string) (map[string]*domain.Closure, error)
}
