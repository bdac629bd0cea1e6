package finance

import (
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBudget(t *testing.T) *Budget {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b, err := NewBudget(uuid.New(), "Marketing 2024", 2024, start, start.AddDate(1, 0, -1))
	require.NoError(t, err)
	return b
}

func TestNewBudget_Validation(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewBudget(uuid.New(), "", 1999, start, start.AddDate(0, 0, -1))
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
}

func TestBudget_ItemsAndTotals(t *testing.T) {
	b := createTestBudget(t)

	ads, err := b.AddItem("advertising", "Online ads", dec("12"), dec("1000"))
	require.NoError(t, err)
	adsID := ads.ID
	_, err = b.AddItem("events", "Trade fair", dec("1"), dec("5000.50"))
	require.NoError(t, err)

	assert.True(t, dec("17000.50").Equal(b.TotalAmount))

	require.NoError(t, b.UpdateItem(adsID, "advertising", "Online ads", dec("6"), dec("1000")))
	assert.True(t, dec("11000.50").Equal(b.TotalAmount))

	require.NoError(t, b.RemoveItem(adsID))
	assert.True(t, dec("5000.50").Equal(b.TotalAmount))
	assert.True(t, shared.HasCode(b.RemoveItem(adsID), "ITEM_NOT_FOUND"))
}

func TestBudget_Lifecycle(t *testing.T) {
	b := createTestBudget(t)
	approver := uuid.New()

	assert.True(t, shared.HasCode(b.Approve(approver), "NO_ITEMS"))

	item, err := b.AddItem("travel", "", dec("2"), dec("500"))
	require.NoError(t, err)
	itemID := item.ID

	err = b.RecordExpense(itemID, dec("100"))
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))

	require.NoError(t, b.Approve(approver))
	assert.Equal(t, BudgetStatusApproved, b.Status)
	assert.Equal(t, approver, *b.ApprovedBy)
	assert.NotNil(t, b.ApprovedAt)

	_, err = b.AddItem("travel", "", dec("1"), dec("1"))
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))

	require.NoError(t, b.RecordExpense(itemID, dec("250")))
	assert.True(t, dec("250").Equal(b.SpentAmount))
	assert.True(t, dec("750").Equal(b.RemainingAmount()))
	assert.True(t, dec("25").Equal(b.UtilizationPercentage()))
	assert.False(t, b.IsOverBudget())

	require.NoError(t, b.RecordExpense(itemID, dec("800")))
	assert.True(t, b.IsOverBudget())

	require.NoError(t, b.Close())
	assert.Equal(t, BudgetStatusClosed, b.Status)
	assert.True(t, shared.HasCode(b.Close(), "INVALID_STATE"))
}

func TestBudget_Cancel(t *testing.T) {
	b := createTestBudget(t)
	require.NoError(t, b.Cancel())
	assert.Equal(t, BudgetStatusCancelled, b.Status)
	assert.True(t, shared.HasCode(b.Cancel(), "INVALID_STATE"))
}

func TestBudget_UtilizationOfEmptyBudget(t *testing.T) {
	b := createTestBudget(t)
	assert.True(t, b.UtilizationPercentage().IsZero())
}
