package sales

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientType distinguishes people from companies
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual"
	ClientTypeCompany    ClientType = "company"
)

// IsValid checks if the client type is valid
func (t ClientType) IsValid() bool {
	return t == ClientTypeIndividual || t == ClientTypeCompany
}

// ClientStatus represents where a client is in the sales pipeline
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "lead"
	ClientStatusProspect ClientStatus = "prospect"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusArchived ClientStatus = "archived"
)

// IsValid checks if the status is valid
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusLead, ClientStatusProspect, ClientStatusActive, ClientStatusInactive, ClientStatusArchived:
		return true
	}
	return false
}

// String returns the string representation
func (s ClientStatus) String() string {
	return string(s)
}

// Client is a customer or sales lead
type Client struct {
	shared.TenantAggregateRoot
	Name        string
	ClientType  ClientType
	Email       string
	Phone       string
	Website     string
	Industry    string
	Address     valueobject.Address
	Status      ClientStatus
	AssignedTo  *uuid.UUID
	CreditLimit decimal.Decimal
	Notes       string
	Tags        []string
}

// ClientDetails carries the editable client fields
type ClientDetails struct {
	Name        string
	ClientType  ClientType
	Email       string
	Phone       string
	Website     string
	Industry    string
	Address     valueobject.Address
	Status      ClientStatus
	AssignedTo  *uuid.UUID
	CreditLimit decimal.Decimal
	Notes       string
	Tags        []string
}

// NewClient creates a client, defaulting to a company lead
func NewClient(tenantID uuid.UUID, d ClientDetails) (*Client, error) {
	if d.ClientType == "" {
		d.ClientType = ClientTypeCompany
	}
	if d.Status == "" {
		d.Status = ClientStatusLead
	}
	if err := validateClient(d); err != nil {
		return nil, err
	}
	c := &Client{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	c.apply(d)
	return c, nil
}

// Update changes client details. Archived clients are read-only.
func (c *Client) Update(d ClientDetails) error {
	if c.IsArchived() {
		return shared.InvalidTransition("update client", c.Status)
	}
	if d.ClientType == "" {
		d.ClientType = c.ClientType
	}
	if d.Status == "" {
		d.Status = c.Status
	}
	if d.Status == ClientStatusArchived {
		return shared.NewValidationError("status", "Use the archive action to archive a client")
	}
	if err := validateClient(d); err != nil {
		return err
	}
	c.apply(d)
	c.touch()
	return nil
}

func (c *Client) apply(d ClientDetails) {
	c.Name = strings.TrimSpace(d.Name)
	c.ClientType = d.ClientType
	c.Email = strings.ToLower(strings.TrimSpace(d.Email))
	c.Phone = strings.TrimSpace(d.Phone)
	c.Website = strings.TrimSpace(d.Website)
	c.Industry = strings.TrimSpace(d.Industry)
	c.Address = d.Address
	c.Status = d.Status
	c.AssignedTo = d.AssignedTo
	c.CreditLimit = shared.RoundMoney(d.CreditLimit)
	c.Notes = d.Notes
	c.Tags = normalizeTags(d.Tags)
}

// Activate converts a lead, prospect or inactive client into an active customer
func (c *Client) Activate() error {
	switch c.Status {
	case ClientStatusLead, ClientStatusProspect, ClientStatusInactive:
	default:
		return shared.InvalidTransition("activate client", c.Status)
	}
	c.Status = ClientStatusActive
	c.touch()
	return nil
}

// Archive retires the client
func (c *Client) Archive() error {
	if c.IsArchived() {
		return shared.InvalidTransition("archive client", c.Status)
	}
	c.Status = ClientStatusArchived
	c.touch()
	return nil
}

// IsArchived returns true once the client is retired
func (c *Client) IsArchived() bool {
	return c.Status == ClientStatusArchived
}

// DisplayName returns the client name, falling back to the primary contact for unnamed individuals
func (c *Client) DisplayName(primary *Contact) string {
	if c.Name != "" {
		return c.Name
	}
	if primary != nil {
		return primary.FullName()
	}
	return c.Email
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateClient(d ClientDetails) error {
	v := &shared.ValidationError{}
	if !d.ClientType.IsValid() {
		v.Add("client_type", "Invalid client type")
	}
	if d.ClientType == ClientTypeCompany && strings.TrimSpace(d.Name) == "" {
		v.Add("name", "Name is required for companies")
	}
	if d.ClientType == ClientTypeIndividual && strings.TrimSpace(d.Name) == "" && strings.TrimSpace(d.Email) == "" {
		v.Add("name", "Name or email is required")
	}
	if !d.Status.IsValid() {
		v.Add("status", "Invalid status")
	}
	if d.CreditLimit.IsNegative() {
		v.Add("credit_limit", "Credit limit cannot be negative")
	}
	return v.OrNil()
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
