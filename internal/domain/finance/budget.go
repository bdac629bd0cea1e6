package finance

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetStatus represents the status of a budget
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusApproved  BudgetStatus = "approved"
	BudgetStatusClosed    BudgetStatus = "closed"
	BudgetStatusCancelled BudgetStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusApproved, BudgetStatusClosed, BudgetStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s BudgetStatus) String() string {
	return string(s)
}

// BudgetItem is a planned cost line. Total is Quantity * UnitPrice; Spent tracks actuals.
type BudgetItem struct {
	ID          uuid.UUID
	BudgetID    uuid.UUID
	Category    string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	SpentAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Remaining returns the unspent part of the item
func (i *BudgetItem) Remaining() decimal.Decimal {
	return i.Total.Sub(i.SpentAmount)
}

// Budget is the aggregate root for planned spending over a period
type Budget struct {
	shared.TenantAggregateRoot
	Name         string
	FiscalYear   int
	DepartmentID *uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	Status       BudgetStatus
	Notes        string
	TotalAmount  decimal.Decimal
	SpentAmount  decimal.Decimal
	ApprovedBy   *uuid.UUID
	ApprovedAt   *time.Time
	ClosedAt     *time.Time
	Items        []BudgetItem
}

// NewBudget creates a draft budget
func NewBudget(tenantID uuid.UUID, name string, fiscalYear int, startDate, endDate time.Time) (*Budget, error) {
	if err := validateBudgetHeader(name, fiscalYear, startDate, endDate); err != nil {
		return nil, err
	}
	return &Budget{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		FiscalYear:          fiscalYear,
		StartDate:           truncateDay(startDate),
		EndDate:             truncateDay(endDate),
		Status:              BudgetStatusDraft,
		TotalAmount:         decimal.Zero,
		SpentAmount:         decimal.Zero,
		Items:               make([]BudgetItem, 0),
	}, nil
}

func validateBudgetHeader(name string, fiscalYear int, startDate, endDate time.Time) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(name) == "" {
		v.Add("name", "Name is required")
	}
	if fiscalYear < 2000 || fiscalYear > 2200 {
		v.Add("fiscal_year", "Fiscal year is out of range")
	}
	if startDate.IsZero() || endDate.IsZero() {
		v.Add("start_date", "Start and end dates are required")
	} else if endDate.Before(startDate) {
		v.Add("end_date", "End date cannot be before start date")
	}
	return v.OrNil()
}

// Update changes the header fields of a draft budget
func (b *Budget) Update(name string, fiscalYear int, startDate, endDate time.Time, departmentID *uuid.UUID, notes string) error {
	if err := b.ensureDraft("update budget"); err != nil {
		return err
	}
	if err := validateBudgetHeader(name, fiscalYear, startDate, endDate); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.FiscalYear = fiscalYear
	b.StartDate = truncateDay(startDate)
	b.EndDate = truncateDay(endDate)
	b.DepartmentID = departmentID
	b.Notes = notes
	b.touch()
	return nil
}

// AddItem appends a planned cost line and recomputes totals
func (b *Budget) AddItem(category, description string, quantity, unitPrice decimal.Decimal) (*BudgetItem, error) {
	if err := b.ensureDraft("add budget items"); err != nil {
		return nil, err
	}
	if err := validateBudgetLine(category, quantity, unitPrice); err != nil {
		return nil, err
	}
	now := time.Now()
	b.Items = append(b.Items, BudgetItem{
		ID:          uuid.New(),
		BudgetID:    b.ID,
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       LineTotal(quantity, unitPrice),
		SpentAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	b.recalculateTotals()
	b.touch()
	return &b.Items[len(b.Items)-1], nil
}

// UpdateItem changes a planned cost line and recomputes totals
func (b *Budget) UpdateItem(itemID uuid.UUID, category, description string, quantity, unitPrice decimal.Decimal) error {
	if err := b.ensureDraft("update budget items"); err != nil {
		return err
	}
	item := b.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Budget item not found")
	}
	if err := validateBudgetLine(category, quantity, unitPrice); err != nil {
		return err
	}
	item.Category = strings.TrimSpace(category)
	item.Description = strings.TrimSpace(description)
	item.Quantity = quantity
	item.UnitPrice = unitPrice
	item.Total = LineTotal(quantity, unitPrice)
	item.UpdatedAt = time.Now()
	b.recalculateTotals()
	b.touch()
	return nil
}

// RemoveItem deletes a planned cost line and recomputes totals
func (b *Budget) RemoveItem(itemID uuid.UUID) error {
	if err := b.ensureDraft("remove budget items"); err != nil {
		return err
	}
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			b.recalculateTotals()
			b.touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Budget item not found")
}

// Approve locks the plan and allows expenses to be recorded
func (b *Budget) Approve(approverID uuid.UUID) error {
	if err := b.ensureDraft("approve budget"); err != nil {
		return err
	}
	if len(b.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve a budget without items")
	}
	now := time.Now()
	b.Status = BudgetStatusApproved
	b.ApprovedBy = &approverID
	b.ApprovedAt = &now
	b.touch()
	b.AddDomainEvent(NewBudgetApprovedEvent(b, approverID))
	return nil
}

// RecordExpense adds actual spend to an item of an approved budget
func (b *Budget) RecordExpense(itemID uuid.UUID, amount decimal.Decimal) error {
	if b.Status != BudgetStatusApproved {
		return shared.InvalidTransition("record expense on budget", b.Status)
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("amount", "Expense amount must be positive")
	}
	item := b.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Budget item not found")
	}
	item.SpentAmount = shared.RoundMoney(item.SpentAmount.Add(amount))
	item.UpdatedAt = time.Now()
	b.recalculateTotals()
	b.touch()
	b.AddDomainEvent(NewBudgetExpenseRecordedEvent(b, item, amount))
	return nil
}

// Close ends an approved budget
func (b *Budget) Close() error {
	if b.Status != BudgetStatusApproved {
		return shared.InvalidTransition("close budget", b.Status)
	}
	now := time.Now()
	b.Status = BudgetStatusClosed
	b.ClosedAt = &now
	b.touch()
	return nil
}

// Cancel retires a draft budget
func (b *Budget) Cancel() error {
	if err := b.ensureDraft("cancel budget"); err != nil {
		return err
	}
	b.Status = BudgetStatusCancelled
	b.touch()
	return nil
}

// RemainingAmount returns the unspent total
func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.SpentAmount)
}

// UtilizationPercentage returns spent/total*100, or zero for an empty budget
func (b *Budget) UtilizationPercentage() decimal.Decimal {
	if b.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return b.SpentAmount.Div(b.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// IsOverBudget reports whether spending exceeds the plan
func (b *Budget) IsOverBudget() bool {
	return b.SpentAmount.GreaterThan(b.TotalAmount)
}

// GetItem returns the item with the given ID
func (b *Budget) GetItem(itemID uuid.UUID) *BudgetItem {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return &b.Items[i]
		}
	}
	return nil
}

func (b *Budget) recalculateTotals() {
	total, spent := decimal.Zero, decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Total)
		spent = spent.Add(item.SpentAmount)
	}
	b.TotalAmount = total
	b.SpentAmount = spent
}

func validateBudgetLine(category string, quantity, unitPrice decimal.Decimal) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(category) == "" {
		v.Add("category", "Category is required")
	}
	if !quantity.IsPositive() {
		v.Add("quantity", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		v.Add("unit_price", "Unit price cannot be negative")
	}
	return v.OrNil()
}

func (b *Budget) ensureDraft(action string) error {
	if b.Status != BudgetStatusDraft {
		return shared.InvalidTransition(action, b.Status)
	}
	return nil
}

func (b *Budget) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
