package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
	"github.com/paradise-yatra/data-management-system-sub003/internal/platform/obs"
	"github.com/paradise-yatra/data-management-system-sub003/internal/ports"
)

const (
	DefaultRouteCacheTTLHours = 168

	// Fallback estimates are kept briefly so a short provider outage is not
	// pinned for the full default TTL.
	FallbackRouteTTLHours = 1
)

// RouteResolver computes a route on a cache miss.
type RouteResolver interface {
	Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error)
}

// Route with a flag telling whether it was served from the cache.
type CachedRoute struct {
	domain.Route
	Cached bool `json:"cached"`
}

// RouteCache memoizes resolver results per direction-sensitive coordinate pair.
// Expired entries are never returned and never swept.
type RouteCache struct {
	store           ports.RouteCacheStore
	resolver        RouteResolver
	defaultTTLHours int
	logger          *zap.Logger
	group           singleflight.Group

	// Now is the clock used for freshness checks and expiry stamps.
	Now func() time.Time
}

func NewRouteCache(store ports.RouteCacheStore, resolver RouteResolver, defaultTTLHours int, logger *zap.Logger) *RouteCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTTLHours < 1 {
		defaultTTLHours = DefaultRouteCacheTTLHours
	}
	return &RouteCache{
		store:           store,
		resolver:        resolver,
		defaultTTLHours: defaultTTLHours,
		logger:          logger,
		Now:             time.Now,
	}
}

func (c *RouteCache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Get returns the fresh entry for the pair, or nil on a miss.
func (c *RouteCache) Get(ctx context.Context, origin, destination domain.Coordinates) (*domain.RouteCacheEntry, error) {
	now := c.now()
	entry, err := c.store.Get(ctx, origin.Hash(), destination.Hash(), now)
	if err != nil {
		return nil, fmt.Errorf("route cache get %s -> %s: %w", origin.Hash(), destination.Hash(), err)
	}
	if !entry.Fresh(now) {
		return nil, nil
	}
	return entry, nil
}

// Put upserts route for the pair. ttlHours == 0 selects the default TTL;
// anything below one hour is raised to one hour.
func (c *RouteCache) Put(ctx context.Context, origin, destination domain.Coordinates, route domain.Route, ttlHours int) error {
	if ttlHours == 0 {
		ttlHours = c.defaultTTLHours
	}
	ttlHours = max(1, ttlHours)

	now := c.now()
	entry := domain.RouteCacheEntry{
		OriginHash:      origin.Hash(),
		DestinationHash: destination.Hash(),
		Route:           route,
		ComputedAt:      now,
		ExpiresAt:       now.Add(time.Duration(ttlHours) * time.Hour),
	}

	if err := c.store.Put(ctx, entry); err != nil {
		return fmt.Errorf("route cache put %s -> %s: %w", entry.OriginHash, entry.DestinationHash, err)
	}
	return nil
}

// ResolveWithCache serves the pair from the cache or resolves and stores it.
// Cache read and write failures are logged; only resolver errors are returned.
func (c *RouteCache) ResolveWithCache(ctx context.Context, origin, destination domain.Coordinates) (CachedRoute, error) {
	if !origin.Valid() || !destination.Valid() {
		return CachedRoute{}, fmt.Errorf("resolve with cache: %w", domain.ErrInvalidCoordinates)
	}

	entry, err := c.Get(ctx, origin, destination)
	if err != nil {
		c.logger.Warn("route cache read failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
	}
	if entry != nil {
		obs.Count(ctx, obs.M().RouteCacheLookups, "result", "hit")
		return CachedRoute{Route: entry.Route, Cached: true}, nil
	}
	obs.Count(ctx, obs.M().RouteCacheLookups, "result", "miss")

	key := origin.Hash() + "|" + destination.Hash()
	v, err, _ := c.group.Do(key, func() (any, error) {
		route, err := c.resolver.Resolve(ctx, origin, destination)
		if err != nil {
			return nil, err
		}
		ttl := 0
		if route.FallbackReason != "" {
			ttl = FallbackRouteTTLHours
		}
		if err := c.Put(ctx, origin, destination, route, ttl); err != nil {
			c.logger.Warn("route cache write failed", zap.String("req_id", obs.RequestID(ctx)), zap.Error(err))
		}
		return route, nil
	})
	if err != nil {
		return CachedRoute{}, fmt.Errorf("resolve with cache: %w", err)
	}

	return CachedRoute{Route: v.(domain.Route)}, nil
}

// Resolve adapts ResolveWithCache to the scheduler's resolver signature.
func (c *RouteCache) Resolve(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	cr, err := c.ResolveWithCache(ctx, origin, destination)
	if err != nil {
		return domain.Route{}, err
	}
	return cr.Route, nil
}
