package finance

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

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	issue := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := NewInvoice(uuid.New(), "INV-2024-00007", "Acme Corp", issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	return inv
}

func createSentInvoice(t *testing.T, qty, price string) *Invoice {
	t.Helper()
	inv := createTestInvoice(t)
	_, err := inv.AddItem("Consulting", dec(qty), dec(price))
	require.NoError(t, err)
	require.NoError(t, inv.Send(uuid.New()))
	return inv
}

// ==================== Status ====================

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   InvoiceStatus
		expected bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusSent, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusCancelled, true},
		{InvoiceStatus("void"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

// ==================== Creation ====================

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft with zero totals", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, DefaultCurrency, inv.Currency)
		assert.True(t, inv.TotalAmount.IsZero())
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("collects field errors", func(t *testing.T) {
		issue := time.Now()
		_, err := NewInvoice(uuid.New(), "", "", issue, issue.AddDate(0, 0, -1))
		var ve *shared.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Fields, 3)
	})
}

// ==================== Totals ====================

func TestInvoice_TotalsScenario(t *testing.T) {
	inv := createTestInvoice(t)
	require.NoError(t, inv.SetPricing(dec("10"), decimal.Zero))

	item, err := inv.AddItem("Widget", dec("2"), dec("50.00"))
	require.NoError(t, err)

	assert.True(t, dec("100.00").Equal(item.Total))
	assert.True(t, dec("100.00").Equal(inv.Subtotal))
	assert.True(t, dec("10.00").Equal(inv.TaxAmount))
	assert.True(t, dec("110.00").Equal(inv.TotalAmount))
}

func TestInvoice_ItemMutations(t *testing.T) {
	inv := createTestInvoice(t)
	require.NoError(t, inv.SetPricing(dec("20"), dec("5")))

	a, err := inv.AddItem("A", dec("1"), dec("10"))
	require.NoError(t, err)
	b, err := inv.AddItem("B", dec("3"), dec("2.50"))
	require.NoError(t, err)
	bID := b.ID

	assert.True(t, dec("17.50").Equal(inv.Subtotal))
	assert.True(t, dec("3.50").Equal(inv.TaxAmount))
	assert.True(t, dec("16.00").Equal(inv.TotalAmount))

	require.NoError(t, inv.UpdateItem(a.ID, "A", dec("2"), dec("10")))
	assert.True(t, dec("27.50").Equal(inv.Subtotal))
	assert.True(t, dec("5.50").Equal(inv.TaxAmount))
	assert.True(t, dec("28.00").Equal(inv.TotalAmount))

	require.NoError(t, inv.RemoveItem(a.ID))
	assert.Len(t, inv.Items, 1)
	assert.Equal(t, bID, inv.Items[0].ID)
	assert.Equal(t, 0, inv.Items[0].SortOrder)
	assert.True(t, dec("7.50").Equal(inv.Subtotal))

	err = inv.RemoveItem(uuid.New())
	assert.True(t, shared.HasCode(err, "ITEM_NOT_FOUND"))
}

func TestInvoice_DiscountCannotExceedAmount(t *testing.T) {
	inv := createTestInvoice(t)
	item, err := inv.AddItem("A", dec("1"), dec("10"))
	require.NoError(t, err)

	err = inv.SetPricing(decimal.Zero, dec("10.01"))
	assert.True(t, shared.HasCode(err, "INVALID_DISCOUNT"))

	require.NoError(t, inv.SetPricing(decimal.Zero, dec("10")))
	assert.True(t, inv.TotalAmount.IsZero())

	err = inv.UpdateItem(item.ID, "A", dec("1"), dec("5"))
	assert.True(t, shared.HasCode(err, "INVALID_DISCOUNT"))
	assert.True(t, dec("10").Equal(inv.Subtotal), "rejected update must leave totals untouched")
}

func TestInvoice_ItemValidation(t *testing.T) {
	inv := createTestInvoice(t)

	_, err := inv.AddItem("", dec("0"), dec("-1"))
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
	assert.Empty(t, inv.Items)
}

func TestInvoice_TotalsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("total == subtotal + tax - discount and subtotal == Σ qty*price", prop.ForAll(
		func(qtys []int, cents []int64, rate int, removeFirst bool) bool {
			issue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			inv, err := NewInvoice(uuid.New(), "INV-2024-00001", "Client", issue, issue)
			if err != nil {
				return false
			}
			if err := inv.SetPricing(decimal.NewFromInt(int64(rate)), decimal.Zero); err != nil {
				return false
			}
			for i, q := range qtys {
				if _, err := inv.AddItem("line", decimal.NewFromInt(int64(q)), decimal.New(cents[i], -2)); err != nil {
					return false
				}
			}
			if removeFirst && len(inv.Items) > 0 {
				if err := inv.RemoveItem(inv.Items[0].ID); err != nil {
					return false
				}
			}

			expected := decimal.Zero
			for _, item := range inv.Items {
				if !item.Total.Equal(item.Quantity.Mul(item.UnitPrice)) {
					return false
				}
				expected = expected.Add(item.Total)
			}
			tax := expected.Mul(inv.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
			return inv.Subtotal.Equal(expected) &&
				inv.TaxAmount.Equal(tax) &&
				inv.TotalAmount.Equal(inv.Subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount))
		},
		gen.SliceOfN(5, gen.IntRange(1, 100)),
		gen.SliceOfN(5, gen.Int64Range(0, 1000000)),
		gen.IntRange(0, 30),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// ==================== Send / Cancel ====================

func TestInvoice_Send(t *testing.T) {
	t.Run("draft without items cannot be sent", func(t *testing.T) {
		inv := createTestInvoice(t)
		err := inv.Send(uuid.New())
		assert.True(t, shared.HasCode(err, "NO_ITEMS"))
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
	})

	t.Run("draft becomes sent", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.NotNil(t, inv.SentAt)
	})

	t.Run("sent and partially paid invoices cannot be sent again", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		assert.True(t, shared.HasCode(inv.Send(uuid.New()), "INVALID_STATE"))

		require.NoError(t, inv.RecordPayment(dec("4")))
		assert.True(t, shared.HasCode(inv.Send(uuid.New()), "INVALID_STATE"))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	})

	t.Run("overdue invoice is sent again", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		require.True(t, inv.MarkOverdue(inv.DueDate.AddDate(0, 0, 1)))
		inv.ClearDomainEvents()

		require.NoError(t, inv.Send(uuid.New()))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		require.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoiceSent, inv.GetDomainEvents()[0].EventType())
	})

	t.Run("overdue invoice with a payment returns to partially paid", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		require.NoError(t, inv.RecordPayment(dec("3")))
		require.True(t, inv.MarkOverdue(inv.DueDate.AddDate(0, 0, 1)))

		require.NoError(t, inv.Send(uuid.New()))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	})

	t.Run("sent invoice is no longer editable", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		_, err := inv.AddItem("x", dec("1"), dec("1"))
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	})

	t.Run("cancelled invoice cannot be sent", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.Cancel(uuid.New()))
		err := inv.Send(uuid.New())
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	})
}

func TestInvoice_Cancel(t *testing.T) {
	inv := createSentInvoice(t, "1", "100")
	require.NoError(t, inv.RecordPayment(dec("10")))

	err := inv.Cancel(uuid.New())
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))

	other := createSentInvoice(t, "1", "100")
	require.NoError(t, other.Cancel(uuid.New()))
	assert.Equal(t, InvoiceStatusCancelled, other.Status)
	assert.NotNil(t, other.CancelledAt)
}

// ==================== Payments ====================

func TestInvoice_RecordPayment(t *testing.T) {
	t.Run("partial then full payment", func(t *testing.T) {
		inv := createSentInvoice(t, "2", "50")

		require.NoError(t, inv.RecordPayment(dec("40")))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, dec("60").Equal(inv.BalanceDue()))

		require.NoError(t, inv.RecordPayment(dec("60")))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidAt)
		assert.True(t, inv.BalanceDue().IsZero())
	})

	t.Run("overpayment marks paid", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		require.NoError(t, inv.RecordPayment(dec("15")))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.BalanceDue().IsZero())
	})

	t.Run("draft rejects payments", func(t *testing.T) {
		inv := createTestInvoice(t)
		err := inv.RecordPayment(dec("1"))
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		inv := createSentInvoice(t, "1", "10")
		assert.True(t, shared.IsValidation(inv.RecordPayment(decimal.Zero)))
	})
}

func TestInvoice_PaymentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("paid_after == paid_before + P and paid iff paid >= total", prop.ForAll(
		func(totalCents int64, paymentCents []int64) bool {
			issue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			inv, _ := NewInvoice(uuid.New(), "INV-2024-00001", "Client", issue, issue)
			if _, err := inv.AddItem("line", decimal.NewFromInt(1), decimal.New(totalCents, -2)); err != nil {
				return false
			}
			if err := inv.Send(uuid.Nil); err != nil {
				return false
			}
			for _, c := range paymentCents {
				amount := decimal.New(c, -2)
				before := inv.PaidAmount
				wasPaid := inv.Status == InvoiceStatusPaid
				err := inv.RecordPayment(amount)
				if wasPaid {
					if err == nil || !inv.PaidAmount.Equal(before) {
						return false
					}
					continue
				}
				if err != nil || !inv.PaidAmount.Equal(before.Add(amount)) {
					return false
				}
				if (inv.Status == InvoiceStatusPaid) != inv.PaidAmount.GreaterThanOrEqual(inv.TotalAmount) {
					return false
				}
			}
			return true
		},
		gen.Int64Range(1, 100000),
		gen.SliceOfN(4, gen.Int64Range(1, 50000)),
	))

	properties.TestingRun(t)
}

// ==================== Overdue / Clone ====================

func TestInvoice_MarkOverdue(t *testing.T) {
	inv := createSentInvoice(t, "1", "10")

	assert.False(t, inv.MarkOverdue(inv.DueDate))
	assert.False(t, inv.IsOverdue(inv.DueDate.Add(23*time.Hour)))

	later := inv.DueDate.AddDate(0, 0, 5)
	assert.Equal(t, 5, inv.DaysOverdue(later))
	assert.True(t, inv.MarkOverdue(later))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.False(t, inv.MarkOverdue(later))

	require.NoError(t, inv.RecordPayment(dec("4")))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status, "a partial payment leaves overdue")
	assert.True(t, inv.IsOverdue(later))
	assert.True(t, inv.MarkOverdue(later), "the next overdue run flags it again")
	require.NoError(t, inv.RecordPayment(dec("6")))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.False(t, inv.IsOverdue(later))
}

func TestInvoice_Clone(t *testing.T) {
	inv := createTestInvoice(t)
	_, err := inv.AddItem("A", dec("2"), dec("50"))
	require.NoError(t, err)
	require.NoError(t, inv.SetPricing(dec("10"), dec("5")))
	require.NoError(t, inv.Send(uuid.New()))

	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	clone, err := inv.Clone("INV-2024-00008", today)
	require.NoError(t, err)

	assert.NotEqual(t, inv.ID, clone.ID)
	assert.Equal(t, InvoiceStatusDraft, clone.Status)
	assert.Equal(t, today, clone.IssueDate)
	assert.Equal(t, today.AddDate(0, 0, 30), clone.DueDate)
	require.Len(t, clone.Items, 1)
	assert.NotEqual(t, inv.Items[0].ID, clone.Items[0].ID)
	assert.Equal(t, clone.ID, clone.Items[0].InvoiceID)
	assert.True(t, inv.TotalAmount.Equal(clone.TotalAmount))
	assert.True(t, clone.PaidAmount.IsZero())
}
