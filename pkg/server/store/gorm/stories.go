package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/slug"
)

var _ store.StoriesStore = (*StoriesStore)(nil)

// StoriesStore implements store.StoriesStore using GORM
type StoriesStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStoriesStore creates a new StoriesStore
func NewStoriesStore(db *gorm.DB) *StoriesStore {
	return &StoriesStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *StoriesStore) filtered(ctx context.Context, f store.StoryFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Story{})
	if f.PublicOnly {
		q = q.Where("status = ? AND consent_given = ?", model.StoryPublished, true)
	} else if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.StorytellerID != nil {
		q = q.Where("storyteller_id = ?", *f.StorytellerID)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if f.Search != "" {
		cond, args := matchAny(contains(f.Search), "title", "summary", "content")
		q = q.Where(cond, args...)
	}
	return q
}

func (s *StoriesStore) ListStories(ctx context.Context, f store.StoryFilter) ([]model.Story, error) {
	q := paginate(s.filtered(ctx, f), f.Page)
	if f.PublicOnly {
		q = q.Order("published_at DESC")
	}
	var stories []model.Story
	err := q.Order("created_at DESC").Order("id ASC").Find(&stories).Error
	return stories, translate(err)
}

func (s *StoriesStore) CountStories(ctx context.Context, f store.StoryFilter) (int64, error) {
	var n int64
	err := s.filtered(ctx, f).Count(&n).Error
	return n, translate(err)
}

func (s *StoriesStore) GetStory(ctx context.Context, id uuid.UUID) (*model.Story, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *StoriesStore) GetStoryBySlug(ctx context.Context, slugValue string) (*model.Story, error) {
	return s.first(ctx, "slug = ?", slugValue)
}

func (s *StoriesStore) FindStoryByExternalID(ctx context.Context, externalID string) (*model.Story, error) {
	return s.first(ctx, "external_id = ?", externalID)
}

func (s *StoriesStore) first(ctx context.Context, query string, arg interface{}) (*model.Story, error) {
	var story model.Story
	if err := s.db.WithContext(ctx).Where(query, arg).First(&story).Error; err != nil {
		return nil, translate(err)
	}
	return &story, nil
}

func (s *StoriesStore) CreateStory(ctx context.Context, story *model.Story) error {
	base := story.Slug
	if base == "" {
		base = story.Title
	}
	base = slug.Make(base)

	if story.Status == model.StoryPublished && story.PublishedAt == nil {
		now := s.now()
		story.PublishedAt = &now
	}

	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate, err := uniqueSlug(tx, base)
		if err != nil {
			return err
		}
		story.Slug = candidate
		return tx.Create(story).Error
	}))
}

// uniqueSlug returns base, or base-2, base-3... whichever is free first.
func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&model.Story{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, n)
	}
}

func (s *StoriesStore) UpdateStory(ctx context.Context, id uuid.UUID, patch store.StoryPatch) (*model.Story, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Summary != nil {
		updates["summary"] = *patch.Summary
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*patch.Tags)
	}
	if patch.IsFeatured != nil {
		updates["is_featured"] = *patch.IsFeatured
	}
	if patch.ConsentGiven != nil {
		updates["consent_given"] = *patch.ConsentGiven
	}
	if patch.Metadata != nil {
		updates["metadata"] = patch.Metadata
	}
	if err := s.update(s.db.WithContext(ctx), id, updates); err != nil {
		return nil, err
	}
	return s.GetStory(ctx, id)
}

func (s *StoriesStore) SetStoryStatus(ctx context.Context, id uuid.UUID, status model.StoryStatus) (*model.Story, error) {
	if !status.Valid() {
		return nil, store.ErrInvalid
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Story
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			return translate(err)
		}
		updates := map[string]interface{}{"status": status}
		if status == model.StoryPublished && current.PublishedAt == nil {
			updates["published_at"] = s.now()
		}
		return s.update(tx, id, updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetStory(ctx, id)
}

func (s *StoriesStore) update(db *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := db.Model(&model.Story{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoriesStore) DeleteStory(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&model.Story{}, "id = ?", id)
	if res.Error != nil {
		return translateDelete(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
