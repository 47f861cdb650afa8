package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// CredentialsStore abstracts API key hash storage
type CredentialsStore interface {
	// GetCredential returns ErrNotFound if the profile has never had a key.
	GetCredential(ctx context.Context, profileID uuid.UUID) (*model.Credential, error)

	// SetAPIKeyHash creates or replaces the profile's key hash.
	SetAPIKeyHash(ctx context.Context, profileID uuid.UUID, hash []byte) error

	TouchCredential(ctx context.Context, profileID uuid.UUID) error
}
