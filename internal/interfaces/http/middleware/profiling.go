package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling runs the rest of the chain under Pyroscope labels so CPU and
// allocation profiles can be sliced per route, tenant and role. It belongs
// after the JWT and tenant middleware on authenticated groups; health and
// swagger routes never reach it.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) []string {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	labels := []string{"route", route, "method", c.Request.Method}
	if tenantID := GetJWTTenantID(c); tenantID != "" {
		labels = append(labels, "tenant_id", tenantID)
	}
	if role := GetJWTRole(c); role != "" {
		labels = append(labels, "role", role)
	}
	return labels
}
