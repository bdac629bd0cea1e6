package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/platform/internal/application/analytics"
	"github.com/google/uuid"
)

type resultEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryResultCache implements ResultCache in process memory.
// Expired entries are dropped lazily when read. Not shared between instances.
type InMemoryResultCache struct {
	mu      sync.RWMutex
	entries map[analytics.CacheKey]resultEntry
	now     func() time.Time
}

// NewInMemoryResultCache creates an empty in-memory result cache
func NewInMemoryResultCache() *InMemoryResultCache {
	return &InMemoryResultCache{
		entries: make(map[analytics.CacheKey]resultEntry),
		now:     time.Now,
	}
}

// Get returns the cached value unless it is missing or expired
func (c *InMemoryResultCache) Get(_ context.Context, key analytics.CacheKey) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a copy of the value. A zero TTL never expires.
func (c *InMemoryResultCache) Set(_ context.Context, key analytics.CacheKey, value []byte, ttl time.Duration) error {
	e := resultEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Invalidate removes one entry
func (c *InMemoryResultCache) Invalidate(_ context.Context, key analytics.CacheKey) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// InvalidateType removes every entry of the cache type for the tenant
func (c *InMemoryResultCache) InvalidateType(_ context.Context, tenantID uuid.UUID, cacheType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.TenantID == tenantID && k.CacheType == cacheType {
			delete(c.entries, k)
		}
	}
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ analytics.ResultCache = (*InMemoryResultCache)(nil)
