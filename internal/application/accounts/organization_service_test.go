package accounts

import (
	"context"
	"testing"

	"github.com/erp/platform/internal/domain/accounts"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationService_EnsureActive(t *testing.T) {
	ctx := context.Background()
	org, err := accounts.NewOrganization("Acme", "ops@acme.test")
	require.NoError(t, err)

	t.Run("active organization passes", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		repo.On("FindByID", ctx, org.ID).Return(org, nil).Once()

		assert.NoError(t, NewOrganizationService(repo, nil).EnsureActive(ctx, org.ID))
	})

	t.Run("suspended organization is rejected", func(t *testing.T) {
		require.NoError(t, org.Suspend())
		repo := new(MockOrganizationRepository)
		repo.On("FindByID", ctx, org.ID).Return(org, nil).Once()

		err := NewOrganizationService(repo, nil).EnsureActive(ctx, org.ID)
		assert.True(t, shared.HasCode(err, "ORGANIZATION_SUSPENDED"))
	})
}
