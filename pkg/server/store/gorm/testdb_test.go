package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storyhub-org/storyhub/pkg/server/store/storetest"
)

func newTestDB(t *testing.T) *gorm.DB {
	return storetest.NewSQLite(t)
}

// newMockDB wraps sqlmock in a postgres dialector for failure-path tests.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)
	return db, mock
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
