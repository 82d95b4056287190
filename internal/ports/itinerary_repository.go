package ports

import (
	"context"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// Port: itinerary storage used by pricing recalculation.
type ItineraryRepository interface {
	// Return the itinerary or an error wrapping domain.ErrNotFound.
	GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error)
	// Persist snapshot only if the itinerary is still unlocked and its pricing
	// version still equals expectedVersion. Reports whether a row was written.
	SavePricing(ctx context.Context, id string, snapshot *domain.PricingSnapshot, expectedVersion int) (bool, error)
}
