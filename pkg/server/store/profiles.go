package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// ProfileFilter narrows ListProfiles and CountProfiles
type ProfileFilter struct {
	Role       model.Role
	Search     string
	ActiveOnly bool
	Page       Page
}

// ProfilePatch carries the fields of a partial update. Nil fields are left alone.
type ProfilePatch struct {
	DisplayName       *string
	Email             *string
	Bio               *string
	Location          *string
	Role              *model.Role
	IsActive          *bool
	AvatarMediaID     *uuid.UUID
	CulturalProtocols datatypes.JSON
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.Email == nil && p.Bio == nil && p.Location == nil &&
		p.Role == nil && p.IsActive == nil && p.AvatarMediaID == nil && p.CulturalProtocols == nil
}

// ProfilesStore abstracts profile storage operations
type ProfilesStore interface {
	ListProfiles(ctx context.Context, filter ProfileFilter) ([]model.Profile, error)
	CountProfiles(ctx context.Context, filter ProfileFilter) (int64, error)

	// GetProfile returns ErrNotFound if no profile has the id.
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindProfileByExternalID(ctx context.Context, externalID string) (*model.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (*model.Profile, error)

	// CreateProfile returns ErrDuplicate when the external id or email is taken.
	CreateProfile(ctx context.Context, profile *model.Profile) error
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*model.Profile, error)

	// SetPermissions writes all three permission flags, false values included.
	SetPermissions(ctx context.Context, id uuid.UUID, perms model.Permissions) (*model.Profile, error)

	// DeleteProfile returns ErrInUse when stories still reference the profile.
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}
