package authn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/server/store/mocks"
)

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func setupAuthenticator(t *testing.T) (*Authenticator, *mocks.ProfilesStore, *mocks.CredentialsStore) {
	t.Helper()
	profiles := &mocks.ProfilesStore{}
	creds := &mocks.CredentialsStore{}
	issuer := newIssuer(t, time.Now())
	return NewAuthenticator(profiles, creds, issuer), profiles, creds
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	auth, profiles, creds := setupAuthenticator(t)

	profile := &model.Profile{ID: uuid.New(), DisplayName: "Admin", Role: model.RoleAdmin, IsActive: true}
	hash, err := HashAPIKey("correct-key")
	require.NoError(t, err)

	profiles.On("FindProfileByEmail", ctx, "admin@example.org").Return(profile, nil)
	creds.On("GetCredential", ctx, profile.ID).Return(&model.Credential{ProfileID: profile.ID, APIKeyHash: hash}, nil)
	creds.On("TouchCredential", ctx, profile.ID).Return(nil)

	session, err := auth.Login(ctx, "admin@example.org", "correct-key")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, profile, session.Profile)

	_, err = auth.Login(ctx, "admin@example.org", "wrong-key")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	creds.AssertNumberOfCalls(t, "TouchCredential", 1)
}

func TestAuthenticator_LoginFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		auth, profiles, _ := setupAuthenticator(t)
		profiles.On("FindProfileByEmail", ctx, "who@example.org").Return(nil, store.ErrNotFound)

		_, err := auth.Login(ctx, "who@example.org", "key")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive profile", func(t *testing.T) {
		auth, profiles, creds := setupAuthenticator(t)
		profiles.On("FindProfileByEmail", ctx, "old@example.org").Return(&model.Profile{ID: uuid.New(), IsActive: false}, nil)

		_, err := auth.Login(ctx, "old@example.org", "key")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		creds.AssertNotCalled(t, "GetCredential", mock.Anything, mock.Anything)
	})

	t.Run("no credential", func(t *testing.T) {
		auth, profiles, creds := setupAuthenticator(t)
		p := &model.Profile{ID: uuid.New(), IsActive: true}
		profiles.On("FindProfileByEmail", ctx, "new@example.org").Return(p, nil)
		creds.On("GetCredential", ctx, p.ID).Return(nil, store.ErrNotFound)

		_, err := auth.Login(ctx, "new@example.org", "key")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("database error surfaces", func(t *testing.T) {
		auth, profiles, _ := setupAuthenticator(t)
		profiles.On("FindProfileByEmail", ctx, "x@example.org").Return(nil, errors.New("db down"))

		_, err := auth.Login(ctx, "x@example.org", "key")
		assert.EqualError(t, err, "db down")
	})
}

func TestAuthenticator_RotateAPIKey(t *testing.T) {
	ctx := context.Background()
	auth, profiles, creds := setupAuthenticator(t)

	id := uuid.New()
	profiles.On("GetProfile", ctx, id).Return(&model.Profile{ID: id}, nil)
	var stored []byte
	creds.On("SetAPIKeyHash", ctx, id, mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) { stored = args.Get(2).([]byte) }).
		Return(nil)

	key, err := auth.RotateAPIKey(ctx, id)
	require.NoError(t, err)
	assert.Len(t, key, 64)
	assert.NotEmpty(t, stored)
	assert.NotContains(t, string(stored), key)

	missing := uuid.New()
	profiles.On("GetProfile", ctx, missing).Return(nil, store.ErrNotFound)
	_, err = auth.RotateAPIKey(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
