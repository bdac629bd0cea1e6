package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	accountsapp "github.com/erp/platform/internal/application/accounts"
	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrganizationRepository struct {
	mock.Mock
}

func (m *mockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Organization), args.Error(1)
}

func (m *mockOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrganizationRepository) Save(ctx context.Context, org *accounts.Organization) error {
	return m.Called(ctx, org).Error(0)
}

// mockUserCounter only answers CountForTenant; other calls panic through the nil interface
type mockUserCounter struct {
	accounts.UserRepository
	mock.Mock
}

func (m *mockUserCounter) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func setupOrganizationRouter(tenantID, userID uuid.UUID) (*gin.Engine, *mockOrganizationRepository, *mockUserCounter) {
	orgRepo := new(mockOrganizationRepository)
	userRepo := new(mockUserCounter)
	h := NewOrganizationHandler(accountsapp.NewOrganizationService(orgRepo, userRepo))

	r := gin.New()
	r.Use(authenticated(tenantID, userID))
	r.GET("/organization", h.Get)
	r.PUT("/organization", h.Update)
	return r, orgRepo, userRepo
}

func TestOrganizationHandler_Get(t *testing.T) {
	org, err := accounts.NewOrganization("Acme Corp", "ops@acme.test")
	require.NoError(t, err)
	userID := uuid.New()
	r, orgRepo, userRepo := setupOrganizationRouter(org.ID, userID)

	orgRepo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
	userRepo.On("CountForTenant", mock.Anything, org.ID, mock.Anything).Return(int64(7), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/organization", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Acme Corp", data["name"])
	assert.Equal(t, "acme-corp", data["slug"])
	assert.Equal(t, float64(7), data["user_count"])
	orgRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestOrganizationHandler_Get_NotFound(t *testing.T) {
	tenantID := uuid.New()
	r, orgRepo, _ := setupOrganizationRouter(tenantID, uuid.New())
	orgRepo.On("FindByID", mock.Anything, tenantID).Return(nil, shared.ErrNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/organization", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestOrganizationHandler_Update(t *testing.T) {
	org, err := accounts.NewOrganization("Acme Corp", "ops@acme.test")
	require.NoError(t, err)
	r, orgRepo, _ := setupOrganizationRouter(org.ID, uuid.New())

	orgRepo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
	orgRepo.On("Save", mock.Anything, mock.MatchedBy(func(o *accounts.Organization) bool {
		return o.Name == "Acme Holdings" && o.Address.City == "Lisbon"
	})).Return(nil)

	body := jsonBody(t, map[string]any{
		"name":    "Acme Holdings",
		"email":   "finance@acme.test",
		"address": map[string]any{"city": "Lisbon", "country": "PT"},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/organization", body))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "Acme Holdings", data["name"])
	orgRepo.AssertExpectations(t)
}

func TestOrganizationHandler_Update_Validation(t *testing.T) {
	r, orgRepo, _ := setupOrganizationRouter(uuid.New(), uuid.New())

	body := jsonBody(t, map[string]any{"email": "not-an-email"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/organization", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	orgRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
