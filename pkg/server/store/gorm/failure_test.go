package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity(context.Background()))

	mock.ExpectExec("SELECT 1").WillReturnError(errors.New("connection refused"))
	assert.Error(t, s.CheckConnectivity(context.Background()))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilesStore_DriverErrors(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfilesStore(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).WillReturnError(errors.New("connection reset"))
	_, err := s.GetProfile(context.Background(), uuid.New())
	assert.EqualError(t, err, "connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "profiles"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "profiles_external_id_key" (SQLSTATE 23505)`))
	mock.ExpectRollback()
	err = s.CreateProfile(context.Background(), &model.Profile{DisplayName: "Mere"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoriesStore_DeleteReferenced(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewStoriesStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "stories"`).
		WillReturnError(errors.New(`ERROR: update or delete on table "stories" violates foreign key constraint (SQLSTATE 23503)`))
	mock.ExpectRollback()

	err := s.DeleteStory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrInUse)
	require.NoError(t, mock.ExpectationsWereMet())
}
