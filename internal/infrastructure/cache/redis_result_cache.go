package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/platform/internal/application/analytics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every result cache key
const DefaultKeyPrefix = "erp:cache"

// scanBatch is the COUNT hint used when scanning keys for type invalidation
const scanBatch = 200

// RedisResultCache implements ResultCache on Redis.
// Keys have the form <prefix>:<tenant>:<cache type>:<key>.
type RedisResultCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisResultCache creates a result cache on an existing Redis client
func NewRedisResultCache(client redis.UniversalClient, prefix string) *RedisResultCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisResultCache{client: client, prefix: prefix}
}

// Get returns the cached value, or found=false on a miss
func (c *RedisResultCache) Get(ctx context.Context, key analytics.CacheKey) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

// Set stores the value with the given TTL
func (c *RedisResultCache) Set(ctx context.Context, key analytics.CacheKey, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate removes one entry
func (c *RedisResultCache) Invalidate(ctx context.Context, key analytics.CacheKey) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// InvalidateType scans the tenant's keys of one cache type and deletes them in batches
func (c *RedisResultCache) InvalidateType(ctx context.Context, tenantID uuid.UUID, cacheType string) error {
	pattern := c.typePrefix(tenantID, cacheType) + "*"
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *RedisResultCache) key(k analytics.CacheKey) string {
	return c.typePrefix(k.TenantID, k.CacheType) + k.Key
}

func (c *RedisResultCache) typePrefix(tenantID uuid.UUID, cacheType string) string {
	return c.prefix + ":" + tenantID.String() + ":" + cacheType + ":"
}

var _ analytics.ResultCache = (*RedisResultCache)(nil)
