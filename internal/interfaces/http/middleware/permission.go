package middleware

import (
	"net/http"
	"strings"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/infrastructure/logger"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Permission actions; a permission string is resource:action
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// RequireResource guards a route group with resource:action, the action
// following the method: GET/HEAD/OPTIONS read, POST create, PUT/PATCH
// update, DELETE delete.
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, resource+":"+methodToAction(c.Request.Method))
	}
}

// RequireResourceAction guards a single route whose action does not follow
// its method, e.g. POST /invoices/:id/payments needs payment:create
func RequireResourceAction(resource, action string) gin.HandlerFunc {
	return RequireAnyPermission(resource + ":" + action)
}

// RequireAnyPermission admits callers granted at least one permission
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorize(c, permissions...)
	}
}

// RequireRole admits only the listed roles
func RequireRole(roles ...accounts.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := accounts.Role(GetJWTRole(c))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		deny(c, "role "+string(current)+" not allowed")
	}
}

func authorize(c *gin.Context, required ...string) {
	claims := GetJWTClaims(c)
	switch {
	case claims == nil:
		deny(c, "no claims", required...)
	case !claims.HasAnyPermission(required...):
		deny(c, "not granted", required...)
	default:
		c.Next()
	}
}

func deny(c *gin.Context, reason string, required ...string) {
	logger.FromContext(c.Request.Context()).Warn("Permission denied",
		zap.String("reason", reason),
		zap.String("required", strings.Join(required, ",")),
		zap.String("path", c.Request.URL.Path),
	)
	abortWithError(c, dto.ErrCodeForbidden, "Permission denied")
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}
