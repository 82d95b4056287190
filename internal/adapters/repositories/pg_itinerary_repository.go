package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// Postgres-backed implementation of the ItineraryRepository port.
// The itinerary body lives in a JSONB document; lock state and pricing are columns.
type PgItineraryRepository struct{ DB PgxQuerier }

func NewPgItineraryRepository(db PgxQuerier) *PgItineraryRepository {
	return &PgItineraryRepository{DB: db}
}

const getItineraryQuery = `
	SELECT status, locked_at, document, pricing
	FROM itineraries
	WHERE id = $1
	`

func (r *PgItineraryRepository) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	if r.DB == nil {
		return nil, errors.New("pg itinerary repository: DB is nil")
	}

	var (
		status   string
		lockedAt *time.Time
		document []byte
		pricing  []byte
	)

	err := r.DB.QueryRow(ctx, getItineraryQuery, id).Scan(&status, &lockedAt, &document, &pricing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get itinerary %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary %q: %w", id, err)
	}

	var it domain.Itinerary
	if err := json.Unmarshal(document, &it); err != nil {
		return nil, fmt.Errorf("get itinerary %q: decode document: %w", id, err)
	}

	it.ID = id
	it.Status = status
	it.LockedAt = lockedAt
	it.Pricing = nil
	if len(pricing) > 0 {
		var snap domain.PricingSnapshot
		if err := json.Unmarshal(pricing, &snap); err != nil {
			return nil, fmt.Errorf("get itinerary %q: decode pricing: %w", id, err)
		}
		it.Pricing = &snap
	}

	return &it, nil
}

// The lock and version checks happen inside the UPDATE so a concurrent
// send/confirm or a competing recalculation cannot interleave.
const savePricingQuery = `
	UPDATE itineraries
	SET pricing = $2,
		pricing_version = $3,
		updated_at = now()
	WHERE id = $1
		AND locked_at IS NULL
		AND status NOT IN ('sent', 'confirmed')
		AND pricing_version = $4
	`

// SavePricing reports false when no row matched the lock and version guard.
func (r *PgItineraryRepository) SavePricing(ctx context.Context, id string, snapshot *domain.PricingSnapshot, expectedVersion int) (bool, error) {
	if r.DB == nil {
		return false, errors.New("pg itinerary repository: DB is nil")
	}
	if snapshot == nil {
		return false, errors.New("save pricing: snapshot is nil")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("save pricing %q: encode snapshot: %w", id, err)
	}

	tag, err := r.DB.Exec(ctx, savePricingQuery, id, payload, snapshot.CalculationVersion, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("save pricing %q: %w", id, err)
	}

	return tag.RowsAffected() == 1, nil
}
