package identity

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Permission names a capability flag on a profile.
type Permission string

const (
	PermissionPublish        Permission = "publish"
	PermissionUpload         Permission = "upload"
	PermissionManageProjects Permission = "manage_projects"
)

// Identity represents the signed-in caller for a request.
type Identity struct {
	// Token claims
	ProfileID   uuid.UUID
	Email       string
	DisplayName string
	Role        model.Role
	Permissions model.Permissions
	IssuedAt    time.Time
	ExpiresAt   time.Time

	// Request context
	RemoteIP net.IP
}

// FromProfile builds an Identity for a freshly authenticated profile.
func FromProfile(p *model.Profile) *Identity {
	id := &Identity{
		ProfileID:   p.ID,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		Permissions: p.Permissions(),
	}
	if p.Email != nil {
		id.Email = *p.Email
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

func (i *Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// CanEdit reports whether the caller may manage other people's records.
func (i *Identity) CanEdit() bool {
	return i.Role == model.RoleAdmin || i.Role == model.RoleEditor
}

// Can reports whether the caller holds a permission. Admins hold all of them.
func (i *Identity) Can(p Permission) bool {
	if i.IsAdmin() {
		return true
	}
	switch p {
	case PermissionPublish:
		return i.Permissions.CanPublish
	case PermissionUpload:
		return i.Permissions.CanUpload
	case PermissionManageProjects:
		return i.Permissions.CanManageProjects
	}
	return false
}

// Owns reports whether the profile id is the caller's own.
func (i *Identity) Owns(profileID uuid.UUID) bool {
	return i.ProfileID == profileID
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
