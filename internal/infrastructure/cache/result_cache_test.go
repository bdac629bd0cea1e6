package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/platform/internal/application/analytics"
	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryResultCache(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sales := analytics.CacheKey{TenantID: tenantID, CacheType: "report:sales_summary", Key: "default"}

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryResultCache()
		require.NoError(t, c.Set(ctx, sales, []byte(`{"rows":[]}`), time.Minute))

		v, found, err := c.Get(ctx, sales)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"rows":[]}`, string(v))
	})

	t.Run("stored value is a copy", func(t *testing.T) {
		c := NewInMemoryResultCache()
		buf := []byte("abc")
		require.NoError(t, c.Set(ctx, sales, buf, time.Minute))
		buf[0] = 'x'

		v, _, _ := c.Get(ctx, sales)
		assert.Equal(t, "abc", string(v))
	})

	t.Run("expired entries are dropped on read", func(t *testing.T) {
		c := NewInMemoryResultCache()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, sales, []byte("x"), time.Minute))

		now = now.Add(59 * time.Second)
		_, found, _ := c.Get(ctx, sales)
		assert.True(t, found)

		now = now.Add(time.Second)
		_, found, _ = c.Get(ctx, sales)
		assert.False(t, found)
		assert.Equal(t, 0, c.Size())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		c := NewInMemoryResultCache()
		require.NoError(t, c.Set(ctx, sales, []byte("x"), 0))
		c.now = func() time.Time { return time.Now().AddDate(10, 0, 0) }

		_, found, _ := c.Get(ctx, sales)
		assert.True(t, found)
	})

	t.Run("invalidate type is tenant scoped", func(t *testing.T) {
		c := NewInMemoryResultCache()
		other := analytics.CacheKey{TenantID: uuid.New(), CacheType: sales.CacheType, Key: "default"}
		filtered := analytics.CacheKey{TenantID: tenantID, CacheType: sales.CacheType, Key: "abc123"}
		aging := analytics.CacheKey{TenantID: tenantID, CacheType: "report:invoice_aging", Key: "default"}
		for _, k := range []analytics.CacheKey{sales, other, filtered, aging} {
			require.NoError(t, c.Set(ctx, k, []byte("x"), time.Minute))
		}

		require.NoError(t, c.InvalidateType(ctx, tenantID, sales.CacheType))

		for k, want := range map[analytics.CacheKey]bool{sales: false, filtered: false, other: true, aging: true} {
			_, found, _ := c.Get(ctx, k)
			assert.Equal(t, want, found, k.CacheType+"/"+k.Key)
		}
	})

	t.Run("invalidate one key", func(t *testing.T) {
		c := NewInMemoryResultCache()
		require.NoError(t, c.Set(ctx, sales, []byte("x"), time.Minute))
		require.NoError(t, c.Invalidate(ctx, sales))
		_, found, _ := c.Get(ctx, sales)
		assert.False(t, found)
	})
}

func TestRedisResultCache_KeyLayout(t *testing.T) {
	tenantID := uuid.MustParse("7b0c6e52-2d0f-4a8e-9a53-1f4f7c4d2b10")
	c := NewRedisResultCache(nil, "")

	key := c.key(analytics.CacheKey{TenantID: tenantID, CacheType: "report:sales_summary", Key: "default"})
	assert.Equal(t, "erp:cache:7b0c6e52-2d0f-4a8e-9a53-1f4f7c4d2b10:report:sales_summary:default", key)
	assert.Equal(t, "erp:cache:7b0c6e52-2d0f-4a8e-9a53-1f4f7c4d2b10:report:sales_summary:", c.typePrefix(tenantID, "report:sales_summary"))
}

func TestResultCacheFactory_Create(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		f := NewResultCacheFactory(config.CacheConfig{Backend: "memory"}, config.RedisConfig{Enabled: true})
		c, client := f.Create()
		assert.IsType(t, &InMemoryResultCache{}, c)
		assert.Nil(t, client)
	})

	t.Run("falls back when redis is unreachable", func(t *testing.T) {
		f := NewResultCacheFactory(config.CacheConfig{Backend: "redis"}, config.RedisConfig{Enabled: true, Host: "localhost", Port: 6390})
		f.connect = func(config.RedisConfig) (*redis.Client, error) {
			return nil, errors.New("connection refused")
		}
		c, client := f.Create()
		assert.IsType(t, &InMemoryResultCache{}, c)
		assert.Nil(t, client)
	})

	t.Run("redis disabled", func(t *testing.T) {
		f := NewResultCacheFactory(config.CacheConfig{Backend: "redis"}, config.RedisConfig{Enabled: false})
		c, _ := f.Create()
		assert.IsType(t, &InMemoryResultCache{}, c)
	})
}
