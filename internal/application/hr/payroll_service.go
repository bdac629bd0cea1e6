package hr

import (
	"context"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayrollService handles pay slips from draft to paid
type PayrollService struct {
	payrollRepo  hr.PayrollRepository
	employeeRepo hr.EmployeeRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(payrollRepo hr.PayrollRepository, employeeRepo hr.EmployeeRepository, logger *zap.Logger) *PayrollService {
	return &PayrollService{payrollRepo: payrollRepo, employeeRepo: employeeRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PayrollService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates a draft payroll; one per employee and period
func (s *PayrollService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreatePayrollRequest) (*PayrollResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, req.EmployeeID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("employee_id", "Employee not found")
		}
		return nil, err
	}

	exists, err := s.payrollRepo.ExistsForPeriod(ctx, tenantID, employee.ID, req.PeriodStart.Time, req.PeriodEnd.Time)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, hr.ErrDuplicatePayroll
	}

	number, err := s.payrollRepo.GeneratePayrollNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	p, err := hr.NewPayroll(tenantID, number, employee, req.PeriodStart.Time, req.PeriodEnd.Time, req.amounts())
	if err != nil {
		return nil, err
	}
	p.Notes = req.Notes
	p.SetCreatedBy(actorID)

	if err := s.payrollRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(p)
	return &resp, nil
}

// GetByID retrieves a payroll
func (s *PayrollService) GetByID(ctx context.Context, tenantID, payrollID uuid.UUID) (*PayrollResponse, error) {
	p, err := s.payrollRepo.FindByIDForTenant(ctx, tenantID, payrollID)
	if err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(p)
	return &resp, nil
}

// List retrieves payrolls with filtering and pagination
func (s *PayrollService) List(ctx context.Context, tenantID uuid.UUID, f PayrollListFilter) ([]PayrollResponse, int64, error) {
	filter, err := f.ToFilter()
	if err != nil {
		return nil, 0, err
	}
	payrolls, err := s.payrollRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payrollRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PayrollResponse, len(payrolls))
	for i := range payrolls {
		out[i] = ToPayrollResponse(&payrolls[i])
	}
	return out, total, nil
}

// Update replaces the amounts of a draft payroll
func (s *PayrollService) Update(ctx context.Context, tenantID, payrollID uuid.UUID, req UpdatePayrollRequest) (*PayrollResponse, error) {
	return s.mutate(ctx, tenantID, payrollID, func(p *hr.Payroll) error {
		return p.UpdateAmounts(req.amounts(), req.Notes)
	})
}

// Approve locks a draft payroll
func (s *PayrollService) Approve(ctx context.Context, tenantID, actorID, payrollID uuid.UUID) (*PayrollResponse, error) {
	return s.mutate(ctx, tenantID, payrollID, func(p *hr.Payroll) error {
		return p.Approve(actorID)
	})
}

// Pay marks an approved payroll as disbursed
func (s *PayrollService) Pay(ctx context.Context, tenantID, payrollID uuid.UUID, req PayPayrollRequest) (*PayrollResponse, error) {
	resp, err := s.mutate(ctx, tenantID, payrollID, func(p *hr.Payroll) error {
		return p.MarkPaid(req.PaymentReference)
	})
	if err == nil {
		s.logger.Info("Payroll paid",
			zap.String("payroll_number", resp.PayrollNumber),
			zap.String("net_pay", resp.NetPay.StringFixed(2)))
	}
	return resp, err
}

// Cancel voids an unpaid payroll
func (s *PayrollService) Cancel(ctx context.Context, tenantID, payrollID uuid.UUID) (*PayrollResponse, error) {
	return s.mutate(ctx, tenantID, payrollID, func(p *hr.Payroll) error {
		return p.Cancel()
	})
}

// Delete cancels the payroll; payrolls are never removed
func (s *PayrollService) Delete(ctx context.Context, tenantID, payrollID uuid.UUID) error {
	_, err := s.Cancel(ctx, tenantID, payrollID)
	return err
}

func (s *PayrollService) mutate(ctx context.Context, tenantID, payrollID uuid.UUID, fn func(*hr.Payroll) error) (*PayrollResponse, error) {
	p, err := s.payrollRepo.FindByIDForTenant(ctx, tenantID, payrollID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, p)
	resp := ToPayrollResponse(p)
	return &resp, nil
}
