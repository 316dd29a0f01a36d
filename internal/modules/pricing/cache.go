// README: Distance caches keyed by normalized city pair.
package pricing

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCacheSize = 4096
	// A route is stored under both orderings, so smaller caches would evict
	// half of every resolution.
	minCacheSize = 2
)

type RouteKey struct {
	From string
	To   string
}

func NewRouteKey(from, to string) RouteKey {
	return RouteKey{From: normalizeCity(from), To: normalizeCity(to)}
}

func (k RouteKey) Reverse() RouteKey {
	return RouteKey{From: k.To, To: k.From}
}

func (k RouteKey) String() string {
	return k.From + "|" + k.To
}

// DistanceCache stores resolved distances. Implementations never fail: a
// broken backend behaves like a miss.
type DistanceCache interface {
	Get(ctx context.Context, key RouteKey) (int, bool)
	Set(ctx context.Context, key RouteKey, km int)
}

// MemoryCache is a bounded in-process LRU, safe for concurrent use.
type MemoryCache struct {
	entries *lru.Cache[RouteKey, int]
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	switch {
	case size <= 0:
		size = DefaultCacheSize
	case size < minCacheSize:
		size = minCacheSize
	}
	entries, err := lru.New[RouteKey, int](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries}, nil
}

func (c *MemoryCache) Get(_ context.Context, key RouteKey) (int, bool) {
	return c.entries.Get(key)
}

func (c *MemoryCache) Set(_ context.Context, key RouteKey, km int) {
	c.entries.Add(key, km)
}

func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// TieredCache checks layers in order and backfills faster layers on a hit.
type TieredCache struct {
	layers []DistanceCache
}

func NewTieredCache(layers ...DistanceCache) *TieredCache {
	return &TieredCache{layers: layers}
}

func (c *TieredCache) Get(ctx context.Context, key RouteKey) (int, bool) {
	for i, layer := range c.layers {
		km, ok := layer.Get(ctx, key)
		if !ok {
			continue
		}
		for _, upper := range c.layers[:i] {
			upper.Set(ctx, key, km)
		}
		return km, true
	}
	return 0, false
}

func (c *TieredCache) Set(ctx context.Context, key RouteKey, km int) {
	for _, layer := range c.layers {
		layer.Set(ctx, key, km)
	}
}
