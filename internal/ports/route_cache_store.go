package ports

import (
	"context"
	"time"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// Persistent storage behind the route cache.
// Implementations must be safe for concurrent use; Put is an upsert on
// (OriginHash, DestinationHash).
type RouteCacheStore interface {
	// Return the entry for the key pair if it expires strictly after now, else nil.
	Get(ctx context.Context, originHash, destinationHash string, now time.Time) (*domain.RouteCacheEntry, error)
	Put(ctx context.Context, entry domain.RouteCacheEntry) error
}
