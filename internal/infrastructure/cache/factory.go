package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/platform/internal/application/analytics"
	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// pingTimeout bounds the Redis reachability check at startup
const pingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// ResultCacheFactory creates the result cache based on configuration
type ResultCacheFactory struct {
	cacheConfig config.CacheConfig
	redisConfig config.RedisConfig
	logger      *zap.Logger
	connect     func(config.RedisConfig) (*redis.Client, error)
}

// ResultCacheFactoryOption is a functional option for configuring the factory
type ResultCacheFactoryOption func(*ResultCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ResultCacheFactoryOption {
	return func(f *ResultCacheFactory) {
		f.logger = logger
	}
}

// NewResultCacheFactory creates a new factory
func NewResultCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...ResultCacheFactoryOption) *ResultCacheFactory {
	f := &ResultCacheFactory{
		cacheConfig: cacheCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
		connect:     NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis-backed cache when Redis is configured and reachable,
// and the in-memory cache otherwise. The Redis client is returned so other
// components can share it; it is nil with the in-memory cache.
func (f *ResultCacheFactory) Create() (analytics.ResultCache, *redis.Client) {
	if f.cacheConfig.Backend != "redis" || !f.redisConfig.Enabled {
		f.logger.Info("using in-memory result cache")
		return NewInMemoryResultCache(), nil
	}

	client, err := f.connect(f.redisConfig)
	if err != nil {
		f.logger.Warn("Redis unavailable, falling back to in-memory result cache. "+
			"Cached reports will not be shared between instances.",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		return NewInMemoryResultCache(), nil
	}

	f.logger.Info("using Redis result cache", zap.String("addr", f.redisConfig.Addr()))
	return NewRedisResultCache(client, f.cacheConfig.KeyPrefix), client
}
