package sales

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact is a person at a client. At most one contact per client is primary.
type Contact struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ClientID  uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
	IsPrimary bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactDetails carries the editable contact fields
type ContactDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
	IsPrimary bool
}

// NewContact creates a contact for a client that is not archived
func NewContact(client *Client, d ContactDetails) (*Contact, error) {
	if client.IsArchived() {
		return nil, shared.InvalidTransition("add contact", client.Status)
	}
	if err := validateContact(d); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &Contact{
		ID:        uuid.New(),
		TenantID:  client.TenantID,
		ClientID:  client.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.apply(d)
	return c, nil
}

// Update changes the contact details
func (c *Contact) Update(d ContactDetails) error {
	if err := validateContact(d); err != nil {
		return err
	}
	c.apply(d)
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Contact) apply(d ContactDetails) {
	c.FirstName = strings.TrimSpace(d.FirstName)
	c.LastName = strings.TrimSpace(d.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(d.Email))
	c.Phone = strings.TrimSpace(d.Phone)
	c.Position = strings.TrimSpace(d.Position)
	c.IsPrimary = d.IsPrimary
}

// FullName returns "First Last"
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Recipient returns the address reminders are sent to
func (c *Contact) Recipient() string {
	return c.Email
}

func validateContact(d ContactDetails) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(d.FirstName) == "" {
		v.Add("first_name", "First name is required")
	}
	if e := strings.TrimSpace(d.Email); e != "" && !strings.Contains(e, "@") {
		v.Add("email", "Invalid email address")
	}
	return v.OrNil()
}
