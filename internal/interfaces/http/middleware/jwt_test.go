package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/infrastructure/auth"
	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestSubject(role accounts.Role) auth.Subject {
	return auth.Subject{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "user@example.com",
		Role:     role,
	}
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService, role accounts.Role) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	sub := newTestSubject(role)
	pair, err := jwtService.GenerateTokenPair(sub)
	require.NoError(t, err)
	return pair, sub
}

func newJWTRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	if handler == nil {
		handler = func(c *gin.Context) { c.Status(http.StatusOK) }
	}
	router.GET("/test", handler)
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, sub := newTestTokenPair(t, jwtService, accounts.RoleAccountant)

	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService}, func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, sub.UserID.String(), claims.UserID)
		assert.Equal(t, sub.TenantID.String(), GetJWTTenantID(c))
		assert.Equal(t, sub.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, "accountant", GetJWTRole(c))

		userID, err := GetUserUUID(c)
		require.NoError(t, err)
		assert.Equal(t, sub.UserID, userID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, accounts.RoleViewer)

	other := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-ch",
		AccessTokenExpiration: time.Minute,
		Issuer:                "test-issuer",
	})
	foreign, err := other.GenerateTokenPair(newTestSubject(accounts.RoleViewer))
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeUnauthorized},
		{"wrong signature", "Bearer " + foreign.AccessToken, dto.ErrCodeUnauthorized},
		{"refresh token used as access", "Bearer " + pair.RefreshToken, dto.ErrCodeUnauthorized},
	}

	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})
	pair, _ := newTestTokenPair(t, jwtService, accounts.RoleViewer)

	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService}, nil)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, decodeError(t, w).Code)
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	pair, _ := newTestTokenPair(t, jwtService, accounts.RoleViewer)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist}, nil)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
}

func TestJWTAuthMiddleware_UserSessionsRevoked(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	pair, sub := newTestTokenPair(t, jwtService, accounts.RoleViewer)

	require.NoError(t, blacklist.RevokeUser(context.Background(), sub.UserID, time.Hour))

	router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist}, nil)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, accounts.RoleViewer)

	t.Run("accepted when allowed", func(t *testing.T) {
		router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService, AllowQueryToken: true}, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?access_token="+pair.AccessToken, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ignored by default", func(t *testing.T) {
		router := newJWTRouter(JWTMiddlewareConfig{JWTService: jwtService}, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?access_token="+pair.AccessToken, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJWTContextHelpers_NoClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTTenantID(c))
	_, err := GetUserUUID(c)
	assert.Error(t, err)
}
