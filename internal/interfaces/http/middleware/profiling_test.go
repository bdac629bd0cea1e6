package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func profiledLabel(ctx context.Context, key string) string {
	value, _ := pprof.Label(ctx, key)
	return value
}

func TestProfiling_LabelsRouteAndCaller(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, "tenant-1")
		c.Set(JWTRoleKey, "accountant")
		c.Next()
	}, Profiling())

	labels := map[string]string{}
	r.GET("/api/v1/invoices/:id", func(c *gin.Context) {
		for _, k := range []string{"route", "method", "tenant_id", "role"} {
			labels[k] = profiledLabel(c.Request.Context(), k)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		"route":     "/api/v1/invoices/:id",
		"method":    http.MethodGet,
		"tenant_id": "tenant-1",
		"role":      "accountant",
	}, labels)
}

func TestProfiling_AnonymousCallerHasNoTenantLabel(t *testing.T) {
	r := gin.New()
	r.Use(Profiling())

	var tenant, route string
	r.GET("/api/v1/me", func(c *gin.Context) {
		tenant = profiledLabel(c.Request.Context(), "tenant_id")
		route = profiledLabel(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Empty(t, tenant)
	assert.Equal(t, "/api/v1/me", route)
}
