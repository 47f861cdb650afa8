package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.MediaStore = (*MediaStore)(nil)

// MediaStore implements store.MediaStore using GORM
type MediaStore struct {
	db *gorm.DB
}

// NewMediaStore creates a new MediaStore
func NewMediaStore(db *gorm.DB) *MediaStore {
	return &MediaStore{db: db}
}

func (s *MediaStore) filtered(ctx context.Context, f store.MediaFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.MediaFile{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.StoryID != nil {
		q = q.Where("story_id = ?", *f.StoryID)
	}
	if f.ProfileID != nil {
		q = q.Where("profile_id = ?", *f.ProfileID)
	}
	return q
}

func (s *MediaStore) ListMedia(ctx context.Context, f store.MediaFilter) ([]model.MediaFile, error) {
	var files []model.MediaFile
	err := paginate(s.filtered(ctx, f), f.Page).Order("created_at DESC").Order("id ASC").Find(&files).Error
	return files, translate(err)
}

func (s *MediaStore) CountMedia(ctx context.Context, f store.MediaFilter) (int64, error) {
	var n int64
	err := s.filtered(ctx, f).Count(&n).Error
	return n, translate(err)
}

func (s *MediaStore) GetMedia(ctx context.Context, id uuid.UUID) (*model.MediaFile, error) {
	var m model.MediaFile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *MediaStore) FindMediaBySHA256(ctx context.Context, sum string) (*model.MediaFile, error) {
	var m model.MediaFile
	err := s.db.WithContext(ctx).Where("sha256 = ?", sum).Order("created_at ASC").First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *MediaStore) CreateMedia(ctx context.Context, m *model.MediaFile) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}

func (s *MediaStore) UpdateMedia(ctx context.Context, id uuid.UUID, patch store.MediaPatch) (*model.MediaFile, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.AltText != nil {
		updates["alt_text"] = *patch.AltText
	}
	if patch.DetachStory {
		updates["story_id"] = nil
	} else if patch.StoryID != nil {
		updates["story_id"] = *patch.StoryID
	}
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&model.MediaFile{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, store.ErrNotFound
		}
	}
	return s.GetMedia(ctx, id)
}

func (s *MediaStore) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&model.MediaFile{}, "id = ?", id)
	if res.Error != nil {
		return translateDelete(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
