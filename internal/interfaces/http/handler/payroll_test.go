package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// payrollRows is a tenant-scoped in-memory payroll table
type payrollRows struct {
	hr.PayrollRepository
	rows map[uuid.UUID]hr.Payroll
}

func (r *payrollRows) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*hr.Payroll, error) {
	row, ok := r.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (r *payrollRows) Save(_ context.Context, p *hr.Payroll) error {
	row := *p
	row.ClearDomainEvents()
	r.rows[p.ID] = row
	return nil
}

func setupPayrollRouter(t *testing.T, tenantID uuid.UUID) (*gin.Engine, *hr.Payroll, *payrollRows) {
	t.Helper()
	emp, err := hr.NewEmployee(tenantID, "EMP-00001", hr.EmployeeDetails{
		FirstName:  "Maria",
		LastName:   "Lopez",
		Email:      "maria@acme.test",
		Position:   "Analyst",
		HireDate:   time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	p, err := hr.NewPayroll(tenantID, "PRL-2024-00001", emp,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), hr.PayrollAmounts{})
	require.NoError(t, err)
	rows := &payrollRows{rows: make(map[uuid.UUID]hr.Payroll)}
	require.NoError(t, rows.Save(context.Background(), p))

	h := NewPayrollHandler(hrapp.NewPayrollService(rows, nil, zap.NewNop()))
	r := gin.New()
	r.Use(authenticated(tenantID, uuid.New()))
	r.DELETE("/payrolls/:id", h.Delete)
	return r, p, rows
}

func TestPayrollHandler_Delete(t *testing.T) {
	tenantID := uuid.New()
	r, p, rows := setupPayrollRouter(t, tenantID)
	path := "/payrolls/" + p.ID.String()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, hr.PayrollStatusCancelled, rows.rows[p.ID].Status)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
}

func TestPayrollHandler_Delete_PaidPayroll(t *testing.T) {
	tenantID := uuid.New()
	r, p, rows := setupPayrollRouter(t, tenantID)
	require.NoError(t, p.Approve(uuid.New()))
	require.NoError(t, p.MarkPaid("TRX-1"))
	require.NoError(t, rows.Save(context.Background(), p))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/payrolls/"+p.ID.String(), nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, hr.PayrollStatusPaid, rows.rows[p.ID].Status)
}

func TestPayrollHandler_Delete_OtherTenant(t *testing.T) {
	r, _, _ := setupPayrollRouter(t, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/payrolls/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
