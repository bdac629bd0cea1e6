package purchasing

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive      SupplierStatus = "active"
	SupplierStatusInactive    SupplierStatus = "inactive"
	SupplierStatusBlacklisted SupplierStatus = "blacklisted"
)

// IsValid checks if the status is valid
func (s SupplierStatus) IsValid() bool {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive, SupplierStatusBlacklisted:
		return true
	}
	return false
}

// String returns the string representation
func (s SupplierStatus) String() string {
	return string(s)
}

// DefaultPaymentTermsDays is used when a supplier is created without terms
const DefaultPaymentTermsDays = 30

// Supplier is a vendor the organization buys from.
// Rating is the average overall score of its performance evaluations.
type Supplier struct {
	shared.TenantAggregateRoot
	Code             string
	Name             string
	ContactName      string
	Email            string
	Phone            string
	Address          valueobject.Address
	TaxID            string
	PaymentTermsDays int
	Status           SupplierStatus
	Rating           *decimal.Decimal
	Notes            string
}

// SupplierDetails carries the mutable supplier fields
type SupplierDetails struct {
	Name             string
	ContactName      string
	Email            string
	Phone            string
	Address          valueobject.Address
	TaxID            string
	PaymentTermsDays int
	Notes            string
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, code string, d SupplierDetails) (*Supplier, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	v := &shared.ValidationError{}
	if code == "" {
		v.Add("code", "Code is required")
	} else if len(code) > 50 {
		v.Add("code", "Code cannot exceed 50 characters")
	}
	validateSupplier(v, d)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Status:              SupplierStatusActive,
	}
	s.apply(d)
	return s, nil
}

// Update changes the supplier details
func (s *Supplier) Update(d SupplierDetails) error {
	v := &shared.ValidationError{}
	validateSupplier(v, d)
	if err := v.OrNil(); err != nil {
		return err
	}
	s.apply(d)
	s.touch()
	return nil
}

func (s *Supplier) apply(d SupplierDetails) {
	s.Name = strings.TrimSpace(d.Name)
	s.ContactName = strings.TrimSpace(d.ContactName)
	s.Email = strings.ToLower(strings.TrimSpace(d.Email))
	s.Phone = strings.TrimSpace(d.Phone)
	s.Address = d.Address
	s.TaxID = strings.TrimSpace(d.TaxID)
	s.PaymentTermsDays = d.PaymentTermsDays
	if s.PaymentTermsDays == 0 {
		s.PaymentTermsDays = DefaultPaymentTermsDays
	}
	s.Notes = d.Notes
}

// Activate re-enables an inactive supplier. Blacklisted suppliers stay blocked.
func (s *Supplier) Activate() error {
	if s.Status != SupplierStatusInactive {
		return shared.InvalidTransition("activate supplier", s.Status)
	}
	s.Status = SupplierStatusActive
	s.touch()
	return nil
}

// Deactivate stops new orders to the supplier
func (s *Supplier) Deactivate() error {
	if s.Status != SupplierStatusActive {
		return shared.InvalidTransition("deactivate supplier", s.Status)
	}
	s.Status = SupplierStatusInactive
	s.touch()
	return nil
}

// Blacklist permanently blocks the supplier
func (s *Supplier) Blacklist(reason string) error {
	if s.Status == SupplierStatusBlacklisted {
		return shared.InvalidTransition("blacklist supplier", s.Status)
	}
	s.Status = SupplierStatusBlacklisted
	if reason = strings.TrimSpace(reason); reason != "" {
		s.Notes = strings.TrimSpace(s.Notes + "\nBlacklisted: " + reason)
	}
	s.touch()
	return nil
}

// CanReceiveOrders returns true when new purchase orders may be placed
func (s *Supplier) CanReceiveOrders() bool {
	return s.Status == SupplierStatusActive
}

// UpdateRating sets the rating from the average of all evaluation scores
func (s *Supplier) UpdateRating(average decimal.Decimal) {
	r := average.Round(2)
	s.Rating = &r
	s.touch()
}

func (s *Supplier) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func validateSupplier(v *shared.ValidationError, d SupplierDetails) {
	if strings.TrimSpace(d.Name) == "" {
		v.Add("name", "Name is required")
	}
	if d.PaymentTermsDays < 0 || d.PaymentTermsDays > 365 {
		v.Add("payment_terms_days", "Payment terms must be between 0 and 365 days")
	}
}
