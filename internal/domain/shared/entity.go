package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with identity and audit timestamps
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity is embedded by mutable entities; Touch on every change
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }
func (e *BaseEntity) Touch()                  { e.UpdatedAt = time.Now() }

// TenantRecord heads append-only rows owned by an organization: supplier
// scores, client interactions, KPI measurements, analytics events and
// policy acknowledgments. Records are written once, so there is no
// UpdatedAt.
type TenantRecord struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	CreatedAt time.Time
}

func NewTenantRecord(tenantID uuid.UUID) TenantRecord {
	return TenantRecord{ID: uuid.New(), TenantID: tenantID, CreatedAt: time.Now()}
}
