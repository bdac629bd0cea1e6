package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func poolConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		MaxOpenConns:    12,
		MaxIdleConns:    3,
		ConnMaxLifetime: 60,
		ConnMaxIdleTime: 10,
	}
}

func mockDialector(t *testing.T) (sqlmock.Sqlmock, gorm.Dialector) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return mock, postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"})
}

func TestOpen_AppliesPoolLimits(t *testing.T) {
	mock, dialector := mockDialector(t)
	mock.ExpectPing()

	db, err := open(context.Background(), dialector, poolConfig(), logger.Discard)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 12, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_UnreachableDatabase(t *testing.T) {
	mock, dialector := mockDialector(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	db, err := open(context.Background(), dialector, poolConfig(), logger.Discard)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet(), "the pool is closed when the first ping fails")
}

func TestDatabase_Ping(t *testing.T) {
	mock, dialector := mockDialector(t)
	mock.ExpectPing()
	db, err := open(context.Background(), dialector, poolConfig(), logger.Discard)
	require.NoError(t, err)

	t.Run("healthy", func(t *testing.T) {
		mock.ExpectPing()
		assert.NoError(t, db.Ping(context.Background()))
	})

	t.Run("down", func(t *testing.T) {
		mock.ExpectPing().WillReturnError(errors.New("server closed the connection"))
		err := db.Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ping database")
	})
}
