package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubTenantValidator struct {
	err    error
	called uuid.UUID
}

func (s *stubTenantValidator) EnsureActive(_ context.Context, tenantID uuid.UUID) error {
	s.called = tenantID
	return s.err
}

// withJWTTenant simulates JWT middleware having run
func withJWTTenant(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenantID != "" {
			c.Set(JWTTenantIDKey, tenantID)
		}
		c.Next()
	}
}

func newTenantRouter(jwtTenant string, cfg TenantMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(withJWTTenant(jwtTenant), TenantMiddlewareWithConfig(cfg))
	handler := func(c *gin.Context) {
		id, err := GetTenantUUID(c)
		if err != nil {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, id.String())
	}
	router.GET("/test", handler)
	router.GET("/health", handler)
	return router
}

func TestTenantMiddleware_FromJWT(t *testing.T) {
	tenantID := uuid.New()
	router := newTenantRouter(tenantID.String(), DefaultTenantConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID.String(), w.Body.String())
}

func TestTenantMiddleware_Rejections(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name       string
		jwtTenant  string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no claims", "", "", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"malformed claim", "not-a-uuid", "", http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"header names another tenant", tenantID.String(), uuid.New().String(), http.StatusForbidden, dto.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTenantRouter(tt.jwtTenant, DefaultTenantConfig())
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestTenantMiddleware_MatchingHeaderAccepted(t *testing.T) {
	tenantID := uuid.New()
	router := newTenantRouter(tenantID.String(), DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	router := newTenantRouter("", DefaultTenantConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "none", w.Body.String())
}

func TestTenantMiddleware_Validator(t *testing.T) {
	tenantID := uuid.New()

	t.Run("active tenant", func(t *testing.T) {
		validator := &stubTenantValidator{}
		cfg := DefaultTenantConfig()
		cfg.Validator = validator
		router := newTenantRouter(tenantID.String(), cfg)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, validator.called)
	})

	t.Run("suspended tenant is forbidden", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.Validator = &stubTenantValidator{err: shared.NewDomainError("ORGANIZATION_SUSPENDED", "Organization is suspended")}
		router := newTenantRouter(tenantID.String(), cfg)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Organization is suspended", decodeError(t, w).Message)
	})

	t.Run("unknown tenant is unauthorized", func(t *testing.T) {
		cfg := DefaultTenantConfig()
		cfg.Validator = &stubTenantValidator{err: shared.ErrNotFound}
		router := newTenantRouter(tenantID.String(), cfg)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
