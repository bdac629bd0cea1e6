package purchasing

import (
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createTestSupplier(t *testing.T, tenantID uuid.UUID) *Supplier {
	t.Helper()
	s, err := NewSupplier(tenantID, "acme", SupplierDetails{Name: "Acme Corp", Email: "Sales@Acme.io"})
	require.NoError(t, err)
	return s
}

func createTestPO(t *testing.T) *PurchaseOrder {
	t.Helper()
	tenantID := uuid.New()
	po, err := NewPurchaseOrder(tenantID, "PO-2024-00001", createTestSupplier(t, tenantID), time.Now())
	require.NoError(t, err)
	return po
}

func createPendingPO(t *testing.T) *PurchaseOrder {
	t.Helper()
	po := createTestPO(t)
	_, err := po.AddItem(ItemInput{ProductName: "Paper", Quantity: dec("10"), UnitPrice: dec("4.50")})
	require.NoError(t, err)
	_, err = po.AddItem(ItemInput{ProductName: "Toner", Quantity: dec("2"), UnitPrice: dec("80")})
	require.NoError(t, err)
	require.NoError(t, po.Submit())
	return po
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("draft for active supplier", func(t *testing.T) {
		po := createTestPO(t)
		assert.Equal(t, PurchaseOrderStatusDraft, po.Status)
		assert.Equal(t, "Acme Corp", po.SupplierName)
		assert.Len(t, po.GetDomainEvents(), 1)
	})

	t.Run("inactive supplier", func(t *testing.T) {
		tenantID := uuid.New()
		s := createTestSupplier(t, tenantID)
		require.NoError(t, s.Deactivate())
		_, err := NewPurchaseOrder(tenantID, "PO-2024-00002", s, time.Now())
		assert.True(t, shared.HasCode(err, "SUPPLIER_INACTIVE"))
	})

	t.Run("supplier of another tenant", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-2024-00003", createTestSupplier(t, uuid.New()), time.Now())
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestPurchaseOrder_Totals(t *testing.T) {
	po := createTestPO(t)
	_, err := po.AddItem(ItemInput{ProductName: "Paper", Quantity: dec("10"), UnitPrice: dec("4.50")})
	require.NoError(t, err)
	require.NoError(t, po.UpdateHeader(nil, dec("10"), dec("15"), ""))

	assert.True(t, dec("45").Equal(po.Subtotal))
	assert.True(t, dec("4.5").Equal(po.TaxAmount))
	assert.True(t, dec("64.5").Equal(po.TotalAmount))

	require.NoError(t, po.RemoveItem(po.Items[0].ID))
	assert.True(t, dec("15").Equal(po.TotalAmount))
}

func TestPurchaseOrder_Submit(t *testing.T) {
	po := createTestPO(t)
	assert.True(t, shared.HasCode(po.Submit(), "NO_ITEMS"))
}

func TestPurchaseOrder_Approve(t *testing.T) {
	po := createPendingPO(t)
	approver := uuid.New()

	require.NoError(t, po.Approve(approver))
	assert.Equal(t, PurchaseOrderStatusApproved, po.Status)
	assert.Equal(t, approver, *po.ApprovedBy)
	require.NotNil(t, po.ApprovalDate)

	approvedAt := *po.ApprovalDate
	err := po.Approve(uuid.New())
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	assert.Equal(t, approver, *po.ApprovedBy, "repeated approval must not change the approver")
	assert.Equal(t, approvedAt, *po.ApprovalDate)
}

func TestPurchaseOrder_Reject(t *testing.T) {
	po := createPendingPO(t)
	assert.True(t, shared.IsValidation(po.Reject(uuid.New(), "")))
	require.NoError(t, po.Reject(uuid.New(), "Too expensive"))
	assert.Equal(t, PurchaseOrderStatusRejected, po.Status)
	assert.Error(t, po.Approve(uuid.New()))
}

func TestPurchaseOrder_Receive(t *testing.T) {
	po := createPendingPO(t)
	require.NoError(t, po.Approve(uuid.New()))
	paper, toner := po.Items[0].ID, po.Items[1].ID

	t.Run("partial receipt", func(t *testing.T) {
		require.NoError(t, po.Receive([]ReceiptLine{{ItemID: paper, Quantity: dec("4")}}))
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, po.Status)
		assert.Nil(t, po.ReceivedAt)
	})

	t.Run("over receipt is rejected atomically", func(t *testing.T) {
		err := po.Receive([]ReceiptLine{
			{ItemID: toner, Quantity: dec("2")},
			{ItemID: paper, Quantity: dec("7")},
		})
		assert.True(t, shared.HasCode(err, "OVER_RECEIPT"))
		assert.True(t, po.GetItem(toner).ReceivedQuantity.IsZero())
	})

	t.Run("cannot cancel after receipt", func(t *testing.T) {
		assert.Error(t, po.Cancel())
	})

	t.Run("full receipt", func(t *testing.T) {
		require.NoError(t, po.Receive([]ReceiptLine{
			{ItemID: paper, Quantity: dec("6")},
			{ItemID: toner, Quantity: dec("2")},
		}))
		assert.Equal(t, PurchaseOrderStatusReceived, po.Status)
		assert.NotNil(t, po.ReceivedAt)
		assert.True(t, dec("100").Equal(po.ReceiptProgress()))
		assert.Error(t, po.Receive([]ReceiptLine{{ItemID: paper, Quantity: dec("1")}}))
	})
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	po := createPendingPO(t)
	require.NoError(t, po.Cancel())
	assert.Equal(t, PurchaseOrderStatusCancelled, po.Status)
	assert.Error(t, po.Cancel())
}

func TestPurchaseOrder_ReceiptStatusProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("status is received iff every item is fully received", prop.ForAll(
		func(ordered, received []int64) bool {
			po := createTestPO(t)
			for i := range ordered {
				if _, err := po.AddItem(ItemInput{ProductName: "Item", Quantity: decimal.NewFromInt(ordered[i]), UnitPrice: dec("1")}); err != nil {
					return false
				}
			}
			if po.Submit() != nil || po.Approve(uuid.New()) != nil {
				return false
			}
			var lines []ReceiptLine
			all := true
			for i, item := range po.Items {
				q := min(received[i], ordered[i])
				if q < ordered[i] {
					all = false
				}
				if q > 0 {
					lines = append(lines, ReceiptLine{ItemID: item.ID, Quantity: decimal.NewFromInt(q)})
				}
			}
			if len(lines) == 0 {
				return true
			}
			if err := po.Receive(lines); err != nil {
				return false
			}
			if all {
				return po.Status == PurchaseOrderStatusReceived
			}
			return po.Status == PurchaseOrderStatusPartiallyReceived
		},
		gen.SliceOfN(3, gen.Int64Range(1, 20)),
		gen.SliceOfN(3, gen.Int64Range(0, 25)),
	))

	properties.TestingRun(t)
}
