package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const replyCacheKeyPrefix = "reply_cache:"

// RedisCache is a ReplyCache backed by Redis. Expiry is delegated to the
// server-side TTL, so entries vanish without a read-triggered eviction.
type RedisCache struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisCache wraps a Redis client. Returns nil when the client is nil so
// callers can fall back to the in-process cache.
func NewRedisCache(redisClient *redis.Client) *RedisCache {
	if redisClient == nil {
		return nil
	}
	return &RedisCache{
		redis:  redisClient,
		tracer: otel.Tracer("concierge.internal.cache"),
	}
}

// Get returns the cached value for key; a missing or expired key is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.redis == nil {
		return "", false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := c.tracer.Start(ctx, "cache.reply.get")
	defer span.End()

	value, err := c.redis.Get(ctx, replyCacheKeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			span.RecordError(err)
		}
		return "", false
	}
	return value, true
}

// Put stores value under key with the given TTL, overwriting any prior entry.
func (c *RedisCache) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if c == nil || c.redis == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := c.tracer.Start(ctx, "cache.reply.put")
	defer span.End()

	if err := c.redis.Set(ctx, replyCacheKeyPrefix+key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
