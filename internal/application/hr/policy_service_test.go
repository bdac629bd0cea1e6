package hr

import (
	"context"
	"testing"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPolicyService_Acknowledge(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	policies, acks, employees := new(MockPolicyRepository), new(MockPolicyAcknowledgmentRepository), new(MockEmployeeRepository)
	svc := NewPolicyService(policies, acks, employees, zap.NewNop())

	policy, err := hr.NewPolicy(tenantID, "Remote work", "operations", "Work from anywhere twice a week.")
	require.NoError(t, err)
	emp := newTestEmployee(t, tenantID)

	policies.On("FindByIDForTenant", ctx, tenantID, policy.ID).Return(policy, nil)
	policies.On("Save", ctx, policy).Return(nil)
	employees.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)

	req := AcknowledgePolicyRequest{EmployeeID: emp.ID, IPAddress: "10.0.0.7"}
	_, err = svc.Acknowledge(ctx, tenantID, policy.ID, req)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"), "draft policies cannot be acknowledged")

	published, err := svc.Publish(ctx, tenantID, policy.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, published.Version)

	acks.On("Exists", ctx, tenantID, policy.ID, emp.ID, 1).Return(false, nil).Once()
	acks.On("Create", ctx, mock.AnythingOfType("*hr.PolicyAcknowledgment")).Return(nil).Once()
	ack, err := svc.Acknowledge(ctx, tenantID, policy.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, ack.PolicyVersion)
	assert.Equal(t, "10.0.0.7", ack.IPAddress)

	acks.On("Exists", ctx, tenantID, policy.ID, emp.ID, 1).Return(true, nil).Once()
	_, err = svc.Acknowledge(ctx, tenantID, policy.ID, req)
	assert.True(t, shared.HasCode(err, "ALREADY_ACKNOWLEDGED"))
	acks.AssertNumberOfCalls(t, "Create", 1)

	// Revising sends the policy back to draft; the next publish needs fresh acknowledgments.
	_, err = svc.Update(ctx, tenantID, policy.ID, PolicyRequest{Title: "Remote work", Content: "Three days a week."})
	require.NoError(t, err)
	republished, err := svc.Publish(ctx, tenantID, policy.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, republished.Version)

	acks.On("Exists", ctx, tenantID, policy.ID, emp.ID, 2).Return(false, nil).Once()
	acks.On("Create", ctx, mock.AnythingOfType("*hr.PolicyAcknowledgment")).Return(nil).Once()
	ack, err = svc.Acknowledge(ctx, tenantID, policy.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, ack.PolicyVersion)
}

func TestPolicyService_DeleteArchives(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	policies := new(MockPolicyRepository)
	svc := NewPolicyService(policies, new(MockPolicyAcknowledgmentRepository), new(MockEmployeeRepository), zap.NewNop())

	policy, err := hr.NewPolicy(tenantID, "Expenses", "", "Keep receipts.")
	require.NoError(t, err)
	policies.On("FindByIDForTenant", ctx, tenantID, policy.ID).Return(policy, nil)
	policies.On("Save", ctx, policy).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, policy.ID))
	assert.Equal(t, hr.PolicyStatusArchived, policy.Status)
	assert.True(t, shared.HasCode(svc.Delete(ctx, tenantID, policy.ID), "INVALID_STATE"))
}
