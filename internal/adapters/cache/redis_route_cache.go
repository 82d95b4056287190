package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// Redis backed route cache store shared between service instances.
// Keys carry no Redis TTL; expiry is checked against the stored ExpiresAt.
type RedisRouteCache struct {
	client *redis.Client
	prefix string
}

type redisEntry struct {
	DistanceKm     float64 `json:"distanceKm"`
	TravelTimeMin  int     `json:"travelTimeMin"`
	Provider       string  `json:"provider"`
	FallbackReason string  `json:"fallbackReason,omitempty"`
	ComputedAtMs   int64   `json:"computedAtMs"`
	ExpiresAtMs    int64   `json:"expiresAtMs"`
}

func NewRedisRouteCache(client *redis.Client, prefix string) *RedisRouteCache {
	if prefix == "" {
		prefix = "route_cache:"
	}
	return &RedisRouteCache{client: client, prefix: prefix}
}

func (r *RedisRouteCache) key(originHash, destinationHash string) string {
	return r.prefix + originHash + "|" + destinationHash
}

func (r *RedisRouteCache) Get(ctx context.Context, originHash, destinationHash string, now time.Time) (*domain.RouteCacheEntry, error) {
	raw, err := r.client.Get(ctx, r.key(originHash, destinationHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var stored redisEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("get route cache: decode entry: %w", err)
	}

	entry := domain.RouteCacheEntry{
		OriginHash:      originHash,
		DestinationHash: destinationHash,
		Route: domain.Route{
			DistanceKm:     stored.DistanceKm,
			TravelTimeMin:  stored.TravelTimeMin,
			Provider:       domain.Provider(stored.Provider),
			FallbackReason: stored.FallbackReason,
		},
		ComputedAt: time.UnixMilli(stored.ComputedAtMs).UTC(),
		ExpiresAt:  time.UnixMilli(stored.ExpiresAtMs).UTC(),
	}
	if !entry.Fresh(now) {
		return nil, nil
	}

	return &entry, nil
}

func (r *RedisRouteCache) Put(ctx context.Context, entry domain.RouteCacheEntry) error {
	raw, err := json.Marshal(redisEntry{
		DistanceKm:     entry.Route.DistanceKm,
		TravelTimeMin:  entry.Route.TravelTimeMin,
		Provider:       string(entry.Route.Provider),
		FallbackReason: entry.Route.FallbackReason,
		ComputedAtMs:   entry.ComputedAt.UnixMilli(),
		ExpiresAtMs:    entry.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("insert route cache: encode entry: %w", err)
	}

	if err := r.client.Set(ctx, r.key(entry.OriginHash, entry.DestinationHash), raw, 0).Err(); err != nil {
		return fmt.Errorf("insert route cache: redis set: %w", err)
	}

	return nil
}
