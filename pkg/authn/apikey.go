package authn

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// ErrInvalidCredentials is returned for any failed sign-in. The cause is
// logged but never shown to the caller.
var ErrInvalidCredentials = errors.New("invalid email or api key")

// GenerateAPIKey returns a random 64 character hex key.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func HashAPIKey(key string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
}

// Authenticator exchanges an email and API key for an access token.
type Authenticator struct {
	profiles store.ProfilesStore
	creds    store.CredentialsStore
	tokens   *TokenIssuer
}

func NewAuthenticator(profiles store.ProfilesStore, creds store.CredentialsStore, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{profiles: profiles, creds: creds, tokens: tokens}
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   *model.Profile
}

func (a *Authenticator) Login(ctx context.Context, email, apiKey string) (*Session, error) {
	log := logging.Log.WithField("email", email)

	profile, err := a.profiles.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !profile.IsActive {
		log.Debug("login for inactive profile")
		return nil, ErrInvalidCredentials
	}

	cred, err := a.creds.GetCredential(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("login for profile without api key")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(cred.APIKeyHash, []byte(apiKey)); err != nil {
		log.Debug("api key mismatch")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := a.tokens.Issue(profile)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := a.creds.TouchCredential(ctx, profile.ID); err != nil {
		log.WithError(err).Warn("failed to record credential use")
	}
	return &Session{Token: token, ExpiresAt: exp, Profile: profile}, nil
}

// RotateAPIKey replaces the profile's key and returns the new plaintext.
func (a *Authenticator) RotateAPIKey(ctx context.Context, profileID uuid.UUID) (string, error) {
	if _, err := a.profiles.GetProfile(ctx, profileID); err != nil {
		return "", err
	}
	key, err := GenerateAPIKey()
	if err != nil {
		return "", err
	}
	hash, err := HashAPIKey(key)
	if err != nil {
		return "", err
	}
	if err := a.creds.SetAPIKeyHash(ctx, profileID, hash); err != nil {
		return "", err
	}
	return key, nil
}
