package models

import (
	"time"

	"github.com/erp/platform/internal/domain/sales"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for CRM clients.
// Tags are stored as a JSON array.
type ClientModel struct {
	TenantAggregateModel
	Name        string              `gorm:"type:varchar(200);not null"`
	ClientType  sales.ClientType    `gorm:"type:varchar(20);not null;default:'company'"`
	Email       string              `gorm:"type:varchar(254)"`
	Phone       string              `gorm:"type:varchar(50)"`
	Website     string              `gorm:"type:varchar(255)"`
	Industry    string              `gorm:"type:varchar(100);index"`
	Address     valueobject.Address `gorm:"type:jsonb;default:'{}'"`
	Status      sales.ClientStatus  `gorm:"type:varchar(20);not null;default:'lead';index"`
	AssignedTo  *uuid.UUID          `gorm:"type:uuid;index"`
	CreditLimit decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Notes       string              `gorm:"type:text"`
	Tags        string              `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *sales.Client {
	c := &sales.Client{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		ClientType:          m.ClientType,
		Email:               m.Email,
		Phone:               m.Phone,
		Website:             m.Website,
		Industry:            m.Industry,
		Address:             m.Address,
		Status:              m.Status,
		AssignedTo:          m.AssignedTo,
		CreditLimit:         m.CreditLimit,
		Notes:               m.Notes,
		Tags:                []string{},
	}
	decodeJSON("clients", "tags", m.Tags, &c.Tags)
	return c
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *sales.Client) *ClientModel {
	m := &ClientModel{
		Name:        c.Name,
		ClientType:  c.ClientType,
		Email:       c.Email,
		Phone:       c.Phone,
		Website:     c.Website,
		Industry:    c.Industry,
		Address:     c.Address,
		Status:      c.Status,
		AssignedTo:  c.AssignedTo,
		CreditLimit: c.CreditLimit,
		Notes:       c.Notes,
		Tags:        encodeJSON(c.Tags, "[]"),
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// ContactModel is the persistence model for client contacts.
type ContactModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100)"`
	Email     string    `gorm:"type:varchar(254)"`
	Phone     string    `gorm:"type:varchar(50)"`
	Position  string    `gorm:"type:varchar(100)"`
	IsPrimary bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *sales.Contact {
	return &sales.Contact{
		ID:        m.ID,
		TenantID:  m.TenantID,
		ClientID:  m.ClientID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Position:  m.Position,
		IsPrimary: m.IsPrimary,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ContactModelFromDomain creates a new persistence model from a domain Contact.
func ContactModelFromDomain(c *sales.Contact) *ContactModel {
	return &ContactModel{
		ID:        c.ID,
		TenantID:  c.TenantID,
		ClientID:  c.ClientID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Position:  c.Position,
		IsPrimary: c.IsPrimary,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientInteractionModel is the append-only record of a client touchpoint.
type ClientInteractionModel struct {
	TenantRecordModel
	ClientID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	ContactID       *uuid.UUID            `gorm:"type:uuid"`
	InteractionType sales.InteractionType `gorm:"type:varchar(20);not null;index"`
	Subject         string                `gorm:"type:varchar(200);not null"`
	Description     string                `gorm:"type:text"`
	OccurredAt      time.Time             `gorm:"not null;index"`
	ScheduledAt     *time.Time
	DurationMinutes int        `gorm:"not null;default:0"`
	Outcome         string     `gorm:"type:text"`
	FollowUpDate    *time.Time `gorm:"type:date"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ClientInteractionModel) TableName() string {
	return "client_interactions"
}

// ToDomain converts the persistence model to a domain ClientInteraction.
func (m *ClientInteractionModel) ToDomain() *sales.ClientInteraction {
	return &sales.ClientInteraction{
		TenantRecord:    m.ToTenantRecord(),
		ClientID:        m.ClientID,
		ContactID:       m.ContactID,
		InteractionType: m.InteractionType,
		Subject:         m.Subject,
		Description:     m.Description,
		OccurredAt:      m.OccurredAt,
		ScheduledAt:     m.ScheduledAt,
		DurationMinutes: m.DurationMinutes,
		Outcome:         m.Outcome,
		FollowUpDate:    m.FollowUpDate,
		CreatedBy:       m.CreatedBy,
	}
}

// ClientInteractionModelFromDomain creates a new persistence model from a domain ClientInteraction.
func ClientInteractionModelFromDomain(i *sales.ClientInteraction) *ClientInteractionModel {
	m := &ClientInteractionModel{
		ClientID:        i.ClientID,
		ContactID:       i.ContactID,
		InteractionType: i.InteractionType,
		Subject:         i.Subject,
		Description:     i.Description,
		OccurredAt:      i.OccurredAt,
		ScheduledAt:     i.ScheduledAt,
		DurationMinutes: i.DurationMinutes,
		Outcome:         i.Outcome,
		FollowUpDate:    i.FollowUpDate,
		CreatedBy:       i.CreatedBy,
	}
	m.FromDomainTenantRecord(i.TenantRecord)
	return m
}
