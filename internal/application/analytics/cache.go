package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// CacheKey addresses one cached result: tenant, cache namespace and a key within it
type CacheKey struct {
	TenantID  uuid.UUID
	CacheType string
	Key       string
}

// ResultCache stores computed results with an explicit TTL
type ResultCache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key CacheKey) ([]byte, bool, error)
	Set(ctx context.Context, key CacheKey, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key CacheKey) error
	// InvalidateType drops every entry of one cache type for the tenant
	InvalidateType(ctx context.Context, tenantID uuid.UUID, cacheType string) error
}

// ParamsHash returns a stable hash of report parameters. Map keys are
// marshalled in sorted order, so equal parameter sets hash equally.
func ParamsHash(params map[string]any) string {
	if len(params) == 0 {
		return "default"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "default"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
