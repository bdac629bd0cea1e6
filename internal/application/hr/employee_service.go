package hr

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService manages employee records
type EmployeeService struct {
	employeeRepo   hr.EmployeeRepository
	departmentRepo hr.DepartmentRepository
	publisher      shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo hr.EmployeeRepository, departmentRepo hr.DepartmentRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *EmployeeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create hires an employee under the next employee number
func (s *EmployeeService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	if err := s.checkDepartment(ctx, tenantID, req.DepartmentID); err != nil {
		return nil, err
	}
	number, err := s.employeeRepo.GenerateEmployeeNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	e, err := hr.NewEmployee(tenantID, number, req.details())
	if err != nil {
		return nil, err
	}
	e.SetCreatedBy(actorID)

	if err := s.employeeRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Employee hired",
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_number", e.EmployeeNumber))
	publishEvents(ctx, s.publisher, s.logger, e)

	resp := ToEmployeeResponse(e, s.now())
	return &resp, nil
}

// GetByID retrieves an employee
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e, s.now())
	return &resp, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, f EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	employees, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.employeeRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i], now)
	}
	return out, total, nil
}

// Update replaces the employee's profile
func (s *EmployeeService) Update(ctx context.Context, tenantID, employeeID uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, tenantID, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := e.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e, s.now())
	return &resp, nil
}

// Terminate ends the employment. A zero date terminates today.
func (s *EmployeeService) Terminate(ctx context.Context, tenantID, employeeID uuid.UUID, req TerminateEmployeeRequest) (*EmployeeResponse, error) {
	e, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	date := req.TerminationDate.Time
	if date.IsZero() {
		date = s.now()
	}
	if err := e.Terminate(date, req.Reason); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Employee terminated",
		zap.String("employee_id", e.ID.String()),
		zap.Time("termination_date", date))
	publishEvents(ctx, s.publisher, s.logger, e)

	resp := ToEmployeeResponse(e, s.now())
	return &resp, nil
}

// Delete terminates the employee; records are never removed
func (s *EmployeeService) Delete(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	_, err := s.Terminate(ctx, tenantID, employeeID, TerminateEmployeeRequest{})
	return err
}

func (s *EmployeeService) checkDepartment(ctx context.Context, tenantID uuid.UUID, departmentID *uuid.UUID) error {
	if departmentID == nil {
		return nil
	}
	d, err := s.departmentRepo.FindByIDForTenant(ctx, tenantID, *departmentID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewValidationError("department_id", "Department not found")
		}
		return err
	}
	if !d.IsActive {
		return shared.NewValidationError("department_id", "Department is inactive")
	}
	return nil
}

// publishEvents never fails the caller: the aggregate is already saved
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	if n, err := shared.PublishRecorded(ctx, publisher, agg); err != nil {
		logger.Error("Failed to publish domain events", zap.Int("count", n), zap.String("aggregate_id", agg.GetID().String()), zap.Error(err))
	}
}
