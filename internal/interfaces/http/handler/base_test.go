package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/erp/platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, tenantID, userID uuid.UUID) {
	c.Set(middleware.JWTTenantIDKey, tenantID.String())
	c.Set(middleware.JWTUserIDKey, userID.String())
	c.Set(middleware.TenantIDKey, tenantID.String())
}

// authenticated returns middleware that injects the identity into every request
func authenticated(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		setJWTContext(c, tenantID, userID)
		c.Next()
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// detailFields lists the fields named in a validation error response
func detailFields(resp dto.Response) []string {
	if resp.Error == nil {
		return nil
	}
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	return fields
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{"validation error", shared.NewValidationError("email", "Email is already registered"), http.StatusBadRequest, dto.ErrCodeValidation, ""},
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, ""},
		{"wrapped not found", fmt.Errorf("load invoice: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound, ""},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "Cannot send a cancelled invoice"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, ""},
		{"invalid input", shared.NewDomainError("INVALID_DISCOUNT", "Discount exceeds total"), http.StatusBadRequest, dto.ErrCodeValidation, "INVALID_DISCOUNT"},
		{"duplicate", shared.NewDomainError("DUPLICATE_PAYROLL", "Payroll already exists"), http.StatusConflict, dto.ErrCodeConflict, "DUPLICATE_PAYROLL"},
		{"business rule", shared.NewDomainError("INSUFFICIENT_LEAVE_BALANCE", "Not enough leave"), http.StatusUnprocessableEntity, dto.ErrCodeBusinessRule, "INSUFFICIENT_LEAVE_BALANCE"},
		{"suspended organization", shared.NewDomainError("ORGANIZATION_SUSPENDED", "Organization is suspended"), http.StatusForbidden, dto.ErrCodeForbidden, "ORGANIZATION_SUSPENDED"},
		{"printing disabled", shared.NewDomainError("PRINTING_DISABLED", "PDF rendering is disabled"), http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "PRINTING_DISABLED"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantReason, resp.Error.Reason)
		})
	}
}

func TestBaseHandler_HandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	err := shared.NewValidationError("password_confirm", "Passwords do not match").
		Add("password", "Password is too weak")
	(&BaseHandler{}).HandleError(c, err)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "password_confirm", resp.Error.Details[0].Field)
	assert.Equal(t, "password", resp.Error.Details[1].Field)
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	(&BaseHandler{}).HandleError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_Identity(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	t.Run("present", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		setJWTContext(c, tenantID, userID)

		gotTenant, gotUser, ok := (&BaseHandler{}).identity(c)
		assert.True(t, ok)
		assert.Equal(t, tenantID, gotTenant)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		_, _, ok := (&BaseHandler{}).identity(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tenant header alone is not an identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(middleware.TenantHeaderKey, tenantID.String())

		_, ok := (&BaseHandler{}).tenant(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	r := gin.New()
	h := &BaseHandler{}
	var got uuid.UUID
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		got = id
		c.Status(http.StatusOK)
	})

	id := uuid.New()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, got)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "id", resp.Error.Details[0].Field)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	f := shared.PageParams{Page: 2, PageSize: 10}.Filter()
	(&BaseHandler{}).Page(c, []string{"a", "b"}, 25, f)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
