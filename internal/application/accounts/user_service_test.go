package accounts

import (
	"context"
	"testing"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot deactivate self", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, nil, nil, zap.NewNop())
		id := uuid.New()

		_, err := svc.Deactivate(ctx, uuid.New(), id, id)

		assert.True(t, shared.HasCode(err, "CANNOT_DEACTIVATE_SELF"))
		repo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deactivates and publishes", func(t *testing.T) {
		repo := new(MockUserRepository)
		publisher := new(MockEventPublisher)
		svc := NewUserService(repo, nil, nil, zap.NewNop())
		svc.SetEventPublisher(publisher)
		user := createTestUser(t, "secret123")
		repo.On("FindByIDForTenant", ctx, user.TenantID, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Deactivate(ctx, user.TenantID, uuid.New(), user.ID)

		require.NoError(t, err)
		assert.Equal(t, "inactive", resp.Status)
		publisher.AssertExpectations(t)

		_, err = svc.Deactivate(ctx, user.TenantID, uuid.New(), user.ID)
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	})
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil, zap.NewNop())
	repo.On("ExistsByEmail", ctx, "bo@acme.test").Return(true, nil)

	_, err := svc.Create(ctx, uuid.New(), uuid.New(), CreateUserRequest{Email: "bo@acme.test", Password: "secret123", Role: "sales"})

	requireFieldError(t, err, "email")
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil, zap.NewNop())
	user := createTestUser(t, "secret123")
	repo.On("FindByIDForTenant", ctx, user.TenantID, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	err := svc.ChangePassword(ctx, user.TenantID, user.ID, ChangePasswordRequest{OldPassword: "wrong1234", NewPassword: "another123", PasswordConfirm: "another123"})
	requireFieldError(t, err, "old_password")

	err = svc.ChangePassword(ctx, user.TenantID, user.ID, ChangePasswordRequest{OldPassword: "secret123", NewPassword: "another123", PasswordConfirm: "another124"})
	requireFieldError(t, err, "password_confirm")

	require.NoError(t, svc.ChangePassword(ctx, user.TenantID, user.ID, ChangePasswordRequest{OldPassword: "secret123", NewPassword: "another123", PasswordConfirm: "another123"}))
	assert.True(t, user.VerifyPassword("another123"))
}

func TestUserListFilter_ToFilter(t *testing.T) {
	verified := true
	f := UserListFilter{PageSize: 500, Role: "hr", IsEmailVerified: &verified}.ToFilter()

	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, "hr", f.Filters["role"])
	assert.Equal(t, true, f.Filters["is_email_verified"])
	_, hasStatus := f.Filters["status"]
	assert.False(t, hasStatus)
}
