package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/logger"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantValidator checks that the tenant may still use the API
type TenantValidator interface {
	EnsureActive(ctx context.Context, tenantID uuid.UUID) error
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// SkipPaths are paths that don't require tenant context (e.g., health check)
	SkipPaths []string
	// Validator optionally rejects suspended organizations
	Validator TenantValidator
	Logger    *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
	}
}

// TenantMiddleware resolves the tenant with the default configuration
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig resolves the tenant from the JWT claims.
// The tenant is never taken from client input: an X-Tenant-ID header is only
// accepted when it names the same tenant as the token. Must run after JWT auth.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID, err := uuid.Parse(GetJWTTenantID(c))
		if err != nil || tenantID == uuid.Nil {
			abortWithError(c, dto.ErrCodeUnauthorized, "Tenant identification required")
			return
		}

		if header := c.GetHeader(TenantHeaderKey); header != "" && header != tenantID.String() {
			log.Warn("Tenant header does not match token",
				zap.String("tenant_id", tenantID.String()),
				zap.String("header", header),
			)
			abortWithError(c, dto.ErrCodeForbidden, "Tenant mismatch")
			return
		}

		if cfg.Validator != nil {
			if err := cfg.Validator.EnsureActive(c.Request.Context(), tenantID); err != nil {
				log.Warn("Tenant validation failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
				var domainErr *shared.DomainError
				if errors.As(err, &domainErr) && !shared.IsNotFound(err) {
					abortWithError(c, dto.ErrCodeForbidden, domainErr.Message)
					return
				}
				abortWithError(c, dto.ErrCodeUnauthorized, "Invalid or inactive tenant")
				return
			}
		}

		c.Set(TenantIDKey, tenantID.String())

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		tenantID = GetJWTTenantID(c)
	}
	return uuid.Parse(tenantID)
}
