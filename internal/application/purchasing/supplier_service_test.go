package purchasing

import (
	"context"
	"testing"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()

	t.Run("duplicate code", func(t *testing.T) {
		r := newRepos()
		svc := NewSupplierService(r.scope, r.suppliers, r.performance, zap.NewNop())
		r.suppliers.On("ExistsByCode", ctx, tenantID, "ACME").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, actorID, CreateSupplierRequest{
			Code:            " acme ",
			SupplierRequest: SupplierRequest{Name: "Acme"},
		})
		require.True(t, shared.IsValidation(err))
		assert.Contains(t, err.Error(), "code")
	})

	t.Run("normalizes code and defaults terms", func(t *testing.T) {
		r := newRepos()
		svc := NewSupplierService(r.scope, r.suppliers, r.performance, zap.NewNop())
		r.suppliers.On("ExistsByCode", ctx, tenantID, "GLOBEX").Return(false, nil)
		r.suppliers.On("Save", ctx, mock.AnythingOfType("*purchasing.Supplier")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, actorID, CreateSupplierRequest{
			Code:            "globex",
			SupplierRequest: SupplierRequest{Name: "Globex", Email: "Sales@Globex.test"},
		})
		require.NoError(t, err)
		assert.Equal(t, "GLOBEX", resp.Code)
		assert.Equal(t, "sales@globex.test", resp.Email)
		assert.Equal(t, purchasing.DefaultPaymentTermsDays, resp.PaymentTermsDays)
		assert.Equal(t, "active", resp.Status)
		assert.Nil(t, resp.Rating)
	})
}

func TestSupplierService_Evaluate(t *testing.T) {
	ctx := context.Background()
	tenantID, actorID := uuid.New(), uuid.New()
	r := newRepos()
	svc := NewSupplierService(r.scope, r.suppliers, r.performance, zap.NewNop())
	supplier := newTestSupplier(t, tenantID)

	r.suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	r.performance.On("Create", ctx, mock.AnythingOfType("*purchasing.SupplierPerformance")).Return(nil)
	r.performance.On("AverageOverall", ctx, tenantID, supplier.ID).Return(decimal.RequireFromString("81.333"), nil)
	r.suppliers.On("Save", ctx, supplier).Return(nil)

	resp, err := svc.Evaluate(ctx, tenantID, actorID, supplier.ID, EvaluateSupplierRequest{
		PeriodStart:        day(t, "2024-01-01"),
		PeriodEnd:          day(t, "2024-03-31"),
		QualityScore:       dec(95),
		DeliveryScore:      dec(90),
		PriceScore:         dec(88),
		CommunicationScore: dec(91),
	})
	require.NoError(t, err)
	assert.True(t, resp.OverallScore.Equal(decimal.RequireFromString("91")))
	assert.Equal(t, "excellent", resp.Rating)
	assert.Equal(t, actorID, resp.EvaluatedBy)

	require.NotNil(t, supplier.Rating)
	assert.True(t, supplier.Rating.Equal(decimal.RequireFromString("81.33")))
}

func TestSupplierService_EvaluateRejectsOutOfRangeScore(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	r := newRepos()
	svc := NewSupplierService(r.scope, r.suppliers, r.performance, zap.NewNop())
	supplier := newTestSupplier(t, tenantID)
	r.suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)

	_, err := svc.Evaluate(ctx, tenantID, uuid.New(), supplier.ID, EvaluateSupplierRequest{
		PeriodStart:  day(t, "2024-01-01"),
		PeriodEnd:    day(t, "2024-03-31"),
		QualityScore: dec(120),
	})
	require.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "quality_score")
	r.performance.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupplierService_DeleteDeactivates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	r := newRepos()
	svc := NewSupplierService(r.scope, r.suppliers, r.performance, zap.NewNop())
	supplier := newTestSupplier(t, tenantID)
	r.suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	r.suppliers.On("Save", ctx, supplier).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, supplier.ID))
	assert.Equal(t, purchasing.SupplierStatusInactive, supplier.Status)

	resp, err := svc.Activate(ctx, tenantID, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}
