package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
)

// PgxExecer is the subset of *pgxpool.Pool the Postgres store needs.
type PgxExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQLRouteCache is a Postgres-backed route cache store.
// Expired rows are left in place and filtered out at read time.
type SQLRouteCache struct {
	DB     PgxExecer
	Logger *zap.Logger
}

func NewSQLRouteCache(db PgxExecer, logger *zap.Logger) *SQLRouteCache {
	return &SQLRouteCache{DB: db, Logger: logger}
}

// Fetch the unexpired entry for an origin/destination hash pair.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	originHash string,
	destinationHash string,
	now time.Time,
) (_ *domain.RouteCacheEntry, err error) {
	defer obs.Time(ctx, s.Logger, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(originHash) == "" || strings.TrimSpace(destinationHash) == "" {
		return nil, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT distance_km, travel_time_min, provider, fallback_reason, computed_at, expires_at
    FROM route_cache
    WHERE origin_hash = $1
        AND destination_hash = $2
        AND expires_at > $3;
	`

	entry := domain.RouteCacheEntry{OriginHash: originHash, DestinationHash: destinationHash}
	var provider string
	err = s.DB.QueryRow(ctx, q, originHash, destinationHash, now.UTC()).Scan(
		&entry.Route.DistanceKm,
		&entry.Route.TravelTimeMin,
		&provider,
		&entry.Route.FallbackReason,
		&entry.ComputedAt,
		&entry.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}
	entry.Route.Provider = domain.Provider(provider)

	return &entry, nil
}

// Upsert one cache entry.
func (s *SQLRouteCache) Put(ctx context.Context, entry domain.RouteCacheEntry) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(entry.OriginHash) == "" || strings.TrimSpace(entry.DestinationHash) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	q := `
	INSERT INTO route_cache (origin_hash, destination_hash, distance_km, travel_time_min, provider, fallback_reason, computed_at, expires_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (origin_hash, destination_hash) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		travel_time_min = EXCLUDED.travel_time_min,
		provider = EXCLUDED.provider,
		fallback_reason = EXCLUDED.fallback_reason,
		computed_at = EXCLUDED.computed_at,
		expires_at = EXCLUDED.expires_at;
	`

	if _, err := s.DB.Exec(ctx, q,
		entry.OriginHash,
		entry.DestinationHash,
		entry.Route.DistanceKm,
		entry.Route.TravelTimeMin,
		string(entry.Route.Provider),
		entry.Route.FallbackReason,
		entry.ComputedAt.UTC(),
		entry.ExpiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", entry.OriginHash, entry.DestinationHash, err)
	}

	return nil
}
