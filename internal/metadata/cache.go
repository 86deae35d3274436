package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "linkmeta:"

// RedisCache keeps successful lookups for a fixed TTL. Redis errors are logged
// and treated as misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("metadata.cache"),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Result, bool) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
