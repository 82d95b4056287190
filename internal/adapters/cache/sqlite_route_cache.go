package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// SQLite backed route cache store for single-node deployments.
// Timestamps are stored as unix milliseconds.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

func (s *SqliteRouteCache) Get(
	ctx context.Context,
	originHash string,
	destinationHash string,
	now time.Time,
) (*domain.RouteCacheEntry, error) {
	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(originHash) == "" || strings.TrimSpace(destinationHash) == "" {
		return nil, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT
        distance_km,
        travel_time_min,
        provider,
        fallback_reason,
        computed_at_ms,
        expires_at_ms
    FROM route_cache
    WHERE origin_hash = ?
        AND destination_hash = ?
        AND expires_at_ms > ?;
	`

	var (
		entry      = domain.RouteCacheEntry{OriginHash: originHash, DestinationHash: destinationHash}
		provider   string
		computedMs int64
		expiresMs  int64
	)
	err := s.DB.QueryRowContext(ctx, q, originHash, destinationHash, now.UnixMilli()).Scan(
		&entry.Route.DistanceKm,
		&entry.Route.TravelTimeMin,
		&provider,
		&entry.Route.FallbackReason,
		&computedMs,
		&expiresMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	entry.Route.Provider = domain.Provider(provider)
	entry.ComputedAt = time.UnixMilli(computedMs).UTC()
	entry.ExpiresAt = time.UnixMilli(expiresMs).UTC()

	return &entry, nil
}

func (s *SqliteRouteCache) Put(ctx context.Context, entry domain.RouteCacheEntry) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(entry.OriginHash) == "" || strings.TrimSpace(entry.DestinationHash) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO route_cache (
        origin_hash,
        destination_hash,
        distance_km,
        travel_time_min,
        provider,
        fallback_reason,
        computed_at_ms,
        expires_at_ms
    )
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.OriginHash,
		entry.DestinationHash,
		entry.Route.DistanceKm,
		entry.Route.TravelTimeMin,
		string(entry.Route.Provider),
		entry.Route.FallbackReason,
		entry.ComputedAt.UnixMilli(),
		entry.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", entry.OriginHash, entry.DestinationHash, err)
	}

	return nil
}
