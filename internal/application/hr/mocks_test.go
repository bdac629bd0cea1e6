package hr

import (
	"context"
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Department, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Department), args.Error(1)
}

func (m *MockDepartmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Department, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.Department), args.Error(1)
}

func (m *MockDepartmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDepartmentRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDepartmentRepository) CountEmployees(ctx context.Context, tenantID uuid.UUID, departmentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, tenantID, departmentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockDepartmentRepository) Save(ctx context.Context, department *hr.Department) error {
	return m.Called(ctx, department).Error(0)
}

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *MockEmployeeRepository) GenerateEmployeeNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Payroll, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Payroll, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.Payroll), args.Error(1)
}

func (m *MockPayrollRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) ExistsForPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, employeeID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayrollRepository) Save(ctx context.Context, payroll *hr.Payroll) error {
	return m.Called(ctx, payroll).Error(0)
}

func (m *MockPayrollRepository) GeneratePayrollNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type MockLeaveRequestRepository struct {
	mock.Mock
}

func (m *MockLeaveRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaveRequestRepository) SumAnnualDays(ctx context.Context, tenantID, employeeID uuid.UUID, year int, status hr.LeaveStatus) (int, error) {
	args := m.Called(ctx, tenantID, employeeID, year, status)
	return args.Int(0), args.Error(1)
}

func (m *MockLeaveRequestRepository) Save(ctx context.Context, request *hr.LeaveRequest) error {
	return m.Called(ctx, request).Error(0)
}

type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Policy, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Policy), args.Error(1)
}

func (m *MockPolicyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Policy, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.Policy), args.Error(1)
}

func (m *MockPolicyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPolicyRepository) Save(ctx context.Context, policy *hr.Policy) error {
	return m.Called(ctx, policy).Error(0)
}

type MockPolicyAcknowledgmentRepository struct {
	mock.Mock
}

func (m *MockPolicyAcknowledgmentRepository) Exists(ctx context.Context, tenantID, policyID, employeeID uuid.UUID, version int) (bool, error) {
	args := m.Called(ctx, tenantID, policyID, employeeID, version)
	return args.Bool(0), args.Error(1)
}

func (m *MockPolicyAcknowledgmentRepository) FindByPolicy(ctx context.Context, tenantID, policyID uuid.UUID, filter shared.Filter) ([]hr.PolicyAcknowledgment, error) {
	args := m.Called(ctx, tenantID, policyID, filter)
	return args.Get(0).([]hr.PolicyAcknowledgment), args.Error(1)
}

func (m *MockPolicyAcknowledgmentRepository) CountByPolicy(ctx context.Context, tenantID, policyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, policyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPolicyAcknowledgmentRepository) Create(ctx context.Context, ack *hr.PolicyAcknowledgment) error {
	return m.Called(ctx, ack).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
