package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	financeapp "github.com/erp/platform/internal/application/finance"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// invoiceRows is a tenant-scoped in-memory invoice table
type invoiceRows struct {
	finance.InvoiceRepository
	rows map[uuid.UUID]finance.Invoice
}

func (r *invoiceRows) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	row, ok := r.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (r *invoiceRows) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *invoiceRows) Save(_ context.Context, inv *finance.Invoice) error {
	row := *inv
	row.ClearDomainEvents()
	r.rows[inv.ID] = row
	return nil
}

func setupInvoiceRouter(t *testing.T, tenantID uuid.UUID) (*gin.Engine, *finance.Invoice, *invoiceRows) {
	t.Helper()
	inv, err := finance.NewInvoice(uuid.New(), "INV-2024-00001", "Globex",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = inv.AddItem("Consulting", decimal.NewFromInt(2), decimal.NewFromInt(50))
	require.NoError(t, err)
	rows := &invoiceRows{rows: make(map[uuid.UUID]finance.Invoice)}
	require.NoError(t, rows.Save(context.Background(), inv))

	scope := financeapp.NewNoOpTransactionScope(rows, nil, nil)
	h := NewInvoiceHandler(financeapp.NewInvoiceService(scope, rows, nil, nil, nil, zap.NewNop()), nil)

	r := gin.New()
	r.Use(authenticated(tenantID, uuid.New()))
	r.GET("/invoices/:id", h.GetByID)
	r.DELETE("/invoices/:id", h.Delete)
	return r, inv, rows
}

func TestInvoiceHandler_GetByID_OtherTenant(t *testing.T) {
	r, inv, _ := setupInvoiceRouter(t, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestInvoiceHandler_GetByID_OwnTenant(t *testing.T) {
	tenantID := uuid.New()
	r, _, rows := setupInvoiceRouter(t, tenantID)
	inv, err := finance.NewInvoice(tenantID, "INV-2024-00002", "Initech",
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, rows.Save(context.Background(), inv))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "INV-2024-00002", data["invoice_number"])
}

func TestInvoiceHandler_Delete_OtherTenantLeavesInvoice(t *testing.T) {
	r, inv, rows := setupInvoiceRouter(t, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/invoices/"+inv.ID.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, finance.InvoiceStatusDraft, rows.rows[inv.ID].Status)
}
