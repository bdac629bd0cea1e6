package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormContactRepository_FindByClient(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormContactRepository(db)

	tenantID := uuid.New()
	clientID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "client_id", "first_name", "last_name", "is_primary", "created_at", "updated_at"}).
		AddRow(uuid.New(), tenantID, clientID, "Ada", "Lovelace", true, now, now).
		AddRow(uuid.New(), tenantID, clientID, "Alan", "Turing", false, now, now)

	mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE tenant_id = \$1 AND client_id = \$2 ORDER BY is_primary DESC`).
		WithArgs(tenantID, clientID).
		WillReturnRows(rows)

	contacts, err := repo.FindByClient(context.Background(), tenantID, clientID)

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.True(t, contacts[0].IsPrimary)
	assert.Equal(t, "Turing", contacts[1].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormContactRepository_FindPrimary(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormContactRepository(db)

	tenantID := uuid.New()
	clientID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE tenant_id = \$1 AND client_id = \$2 AND is_primary = \$3`).
		WithArgs(tenantID, clientID, true, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	contact, err := repo.FindPrimary(context.Background(), tenantID, clientID)

	assert.Nil(t, contact)
	assert.Equal(t, shared.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormContactRepository_ClearPrimary(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormContactRepository(db)

	mock.ExpectExec(`UPDATE "contacts" SET .*"is_primary".* WHERE tenant_id = .* AND client_id = .* AND id <> .* AND is_primary = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ClearPrimary(context.Background(), uuid.New(), uuid.New(), uuid.New())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormContactRepository_Delete(t *testing.T) {
	t.Run("deletes contact", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormContactRepository(db)

		tenantID := uuid.New()
		contactID := uuid.New()

		mock.ExpectExec(`DELETE FROM "contacts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, contactID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), tenantID, contactID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing contact is not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormContactRepository(db)

		tenantID := uuid.New()
		contactID := uuid.New()

		mock.ExpectExec(`DELETE FROM "contacts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, contactID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, contactID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
