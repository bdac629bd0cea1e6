package hr

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// Department groups employees inside an organization
type Department struct {
	shared.TenantAggregateRoot
	Name        string
	Code        string
	Description string
	ManagerID   *uuid.UUID
	IsActive    bool
}

// NewDepartment creates an active department
func NewDepartment(tenantID uuid.UUID, name, code string) (*Department, error) {
	if err := validateDepartment(name, code); err != nil {
		return nil, err
	}
	return &Department{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		IsActive:            true,
	}, nil
}

// Update changes the department details
func (d *Department) Update(name, code, description string, managerID *uuid.UUID) error {
	if err := validateDepartment(name, code); err != nil {
		return err
	}
	d.Name = strings.TrimSpace(name)
	d.Code = strings.ToUpper(strings.TrimSpace(code))
	d.Description = description
	d.ManagerID = managerID
	d.touch()
	return nil
}

// Deactivate hides the department from new assignments
func (d *Department) Deactivate() error {
	if !d.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Department is already inactive")
	}
	d.IsActive = false
	d.touch()
	return nil
}

func (d *Department) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

func validateDepartment(name, code string) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(name) == "" {
		v.Add("name", "Name is required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		v.Add("code", "Code is required")
	} else if len(code) > 20 {
		v.Add("code", "Code cannot exceed 20 characters")
	}
	return v.OrNil()
}
