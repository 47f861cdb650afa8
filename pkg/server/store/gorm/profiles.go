package gorm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.ProfilesStore = (*ProfilesStore)(nil)

// ProfilesStore implements store.ProfilesStore using GORM
type ProfilesStore struct {
	db *gorm.DB
}

// NewProfilesStore creates a new ProfilesStore
func NewProfilesStore(db *gorm.DB) *ProfilesStore {
	return &ProfilesStore{db: db}
}

func (s *ProfilesStore) filtered(ctx context.Context, f store.ProfileFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Profile{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Search != "" {
		cond, args := matchAny(contains(f.Search), "display_name", "COALESCE(email, '')", "location")
		q = q.Where(cond, args...)
	}
	return q
}

func (s *ProfilesStore) ListProfiles(ctx context.Context, f store.ProfileFilter) ([]model.Profile, error) {
	var profiles []model.Profile
	err := paginate(s.filtered(ctx, f), f.Page).Order("display_name ASC").Order("id ASC").Find(&profiles).Error
	return profiles, translate(err)
}

func (s *ProfilesStore) CountProfiles(ctx context.Context, f store.ProfileFilter) (int64, error) {
	var n int64
	err := s.filtered(ctx, f).Count(&n).Error
	return n, translate(err)
}

func (s *ProfilesStore) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *ProfilesStore) FindProfileByExternalID(ctx context.Context, externalID string) (*model.Profile, error) {
	return s.first(ctx, "external_id = ?", externalID)
}

func (s *ProfilesStore) FindProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return s.first(ctx, "email = ?", normalizeEmail(email))
}

func (s *ProfilesStore) first(ctx context.Context, query string, arg interface{}) (*model.Profile, error) {
	var p model.Profile
	if err := s.db.WithContext(ctx).Where(query, arg).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *ProfilesStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	if p.Email != nil {
		e := normalizeEmail(*p.Email)
		p.Email = &e
	}
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *ProfilesStore) UpdateProfile(ctx context.Context, id uuid.UUID, patch store.ProfilePatch) (*model.Profile, error) {
	updates := map[string]interface{}{}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.Email != nil {
		updates["email"] = normalizeEmail(*patch.Email)
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.AvatarMediaID != nil {
		updates["avatar_media_id"] = *patch.AvatarMediaID
	}
	if patch.CulturalProtocols != nil {
		updates["cultural_protocols"] = patch.CulturalProtocols
	}
	if err := s.update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *ProfilesStore) SetPermissions(ctx context.Context, id uuid.UUID, perms model.Permissions) (*model.Profile, error) {
	updates := map[string]interface{}{
		"can_publish":         perms.CanPublish,
		"can_upload":          perms.CanUpload,
		"can_manage_projects": perms.CanManageProjects,
	}
	if err := s.update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

// update applies a column map; maps keep false and empty values that a
// struct update would skip.
func (s *ProfilesStore) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProfilesStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Story{}).Where("storyteller_id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n > 0 {
		return store.ErrInUse
	}
	res := s.db.WithContext(ctx).Delete(&model.Profile{}, "id = ?", id)
	if res.Error != nil {
		return translateDelete(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
