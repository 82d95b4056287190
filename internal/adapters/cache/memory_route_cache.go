package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

// In-process route cache store. Items never expire inside go-cache and no
// janitor runs; expiry is decided by the entry's own ExpiresAt at read time.
type MemoryRouteCache struct {
	items *gocache.Cache
}

func NewMemoryRouteCache() *MemoryRouteCache {
	return &MemoryRouteCache{items: gocache.New(gocache.NoExpiration, 0)}
}

func memoryKey(originHash, destinationHash string) string {
	return originHash + "|" + destinationHash
}

func (m *MemoryRouteCache) Get(_ context.Context, originHash, destinationHash string, now time.Time) (*domain.RouteCacheEntry, error) {
	v, ok := m.items.Get(memoryKey(originHash, destinationHash))
	if !ok {
		return nil, nil
	}

	entry := v.(domain.RouteCacheEntry)
	if !entry.Fresh(now) {
		return nil, nil
	}

	return &entry, nil
}

func (m *MemoryRouteCache) Put(_ context.Context, entry domain.RouteCacheEntry) error {
	m.items.Set(memoryKey(entry.OriginHash, entry.DestinationHash), entry, gocache.NoExpiration)
	return nil
}

// Len reports how many entries are held, stale ones included.
func (m *MemoryRouteCache) Len() int {
	return m.items.ItemCount()
}
