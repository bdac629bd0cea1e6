package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is a consistency boundary that records domain events while
// it changes. Repositories bump the version on save and services publish
// the recorded events afterwards (see PublishRecorded).
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries the optimistic-lock version and the pending
// event list. Events are not persisted.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot starts a fresh aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent records an event; nil is ignored
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	if event == nil {
		return
	}
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the events recorded since load, oldest first
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

// TenantAggregateRoot is an aggregate owned by one organization. Every
// repository read filters on TenantID.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TenantID: tenantID}
}

// SetCreatedBy records the acting user. uuid.Nil (system actions) leaves
// the creator unset.
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID != uuid.Nil {
		t.CreatedBy = &userID
	}
}

func (t *TenantAggregateRoot) GetCreatedBy() *uuid.UUID { return t.CreatedBy }

// BelongsTo reports whether tenantID owns the aggregate
func (t *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool { return t.TenantID == tenantID }
