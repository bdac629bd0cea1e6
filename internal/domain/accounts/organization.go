package accounts

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrganizationStatus represents the status of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

// IsValid checks if the status is valid
func (s OrganizationStatus) IsValid() bool {
	return s == OrganizationStatusActive || s == OrganizationStatusSuspended
}

// String returns the string representation
func (s OrganizationStatus) String() string {
	return string(s)
}

// Organization is the tenant boundary. Every other business entity references
// exactly one organization, and its ID doubles as the tenant ID.
type Organization struct {
	shared.BaseAggregateRoot
	Name    string
	Slug    string
	Email   string
	Phone   string
	Website string
	Address valueobject.Address
	Status  OrganizationStatus
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// NewOrganization creates a new active organization
func NewOrganization(name, email string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("organization_name", "Organization name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("organization_name", "Organization name cannot exceed 200 characters")
	}

	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              Slugify(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Status:            OrganizationStatusActive,
	}
	return org, nil
}

// TenantID returns the tenant identifier this organization defines
func (o *Organization) TenantID() uuid.UUID {
	return o.ID
}

// Update changes the mutable profile fields
func (o *Organization) Update(name, email, phone, website string, address valueobject.Address) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "Organization name is required")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	o.Name = name
	o.Email = strings.ToLower(strings.TrimSpace(email))
	o.Phone = strings.TrimSpace(phone)
	o.Website = strings.TrimSpace(website)
	o.Address = address
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Suspend blocks the organization's users from signing in
func (o *Organization) Suspend() error {
	if o.Status == OrganizationStatusSuspended {
		return shared.InvalidTransition("suspend organization", o.Status)
	}
	o.Status = OrganizationStatusSuspended
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Activate re-enables a suspended organization
func (o *Organization) Activate() error {
	if o.Status == OrganizationStatusActive {
		return shared.InvalidTransition("activate organization", o.Status)
	}
	o.Status = OrganizationStatusActive
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// IsActive returns true if the organization is active
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}

// Slugify lowercases the name and collapses anything that is not a letter or digit into single dashes
func Slugify(name string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "org"
	}
	return slug
}
