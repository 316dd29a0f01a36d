// README: Redis-backed distance cache shared across API instances.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"kiloshare/internal/logger"
)

const (
	distanceKeyPrefix   = "pricing:distance:"
	defaultDistanceTTL  = 24 * time.Hour
	defaultRedisTimeout = 250 * time.Millisecond
)

// RedisCache keys are namespaced by reference version, so a redeploy with new
// reference data never reads estimates computed from the old one.
type RedisCache struct {
	redis   *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	log     logger.Logger
}

func NewRedisCache(redis *redis.Client, ttl time.Duration, refVersion string, log logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultDistanceTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisCache{
		redis:   redis,
		prefix:  distanceKeyPrefix + refVersion + ":",
		ttl:     ttl,
		timeout: defaultRedisTimeout,
		log:     log,
	}
}

func (c *RedisCache) key(k RouteKey) string {
	return c.prefix + k.String()
}

func (c *RedisCache) Get(ctx context.Context, key RouteKey) (int, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	km, err := c.redis.Get(ctx, c.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		c.log.Warn("redis distance lookup failed", "route", key.String(), "error", err)
		return 0, false
	}
	return km, true
}

func (c *RedisCache) Set(ctx context.Context, key RouteKey, km int) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.redis.Set(ctx, c.key(key), km, c.ttl).Err(); err != nil {
		c.log.Warn("redis distance write failed", "route", key.String(), "error", err)
	}
}
