package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.KnowledgeStore = (*KnowledgeStore)(nil)

// KnowledgeStore implements store.KnowledgeStore using GORM
type KnowledgeStore struct {
	db *gorm.DB
}

// NewKnowledgeStore creates a new KnowledgeStore
func NewKnowledgeStore(db *gorm.DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

func (s *KnowledgeStore) ListKnowledge(ctx context.Context, category string, page store.Page) ([]model.KnowledgeEntry, error) {
	q := s.db.WithContext(ctx).Model(&model.KnowledgeEntry{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var entries []model.KnowledgeEntry
	err := paginate(q, page).Order("category ASC").Order("title ASC").Find(&entries).Error
	return entries, translate(err)
}

func (s *KnowledgeStore) GetKnowledge(ctx context.Context, id uuid.UUID) (*model.KnowledgeEntry, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *KnowledgeStore) GetKnowledgeBySlug(ctx context.Context, slugValue string) (*model.KnowledgeEntry, error) {
	return s.first(ctx, "slug = ?", slugValue)
}

func (s *KnowledgeStore) first(ctx context.Context, query string, arg interface{}) (*model.KnowledgeEntry, error) {
	var k model.KnowledgeEntry
	if err := s.db.WithContext(ctx).Where(query, arg).First(&k).Error; err != nil {
		return nil, translate(err)
	}
	return &k, nil
}

func (s *KnowledgeStore) SearchKnowledge(ctx context.Context, query string, filter store.KnowledgeFilter) ([]model.KnowledgeEntry, error) {
	cond, args := matchAny(contains(query), "title", "content", "CAST(tags AS TEXT)")
	q := s.db.WithContext(ctx).Where(cond, args...)
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var entries []model.KnowledgeEntry
	err := q.Find(&entries).Error
	return entries, translate(err)
}

func (s *KnowledgeStore) CreateKnowledge(ctx context.Context, k *model.KnowledgeEntry) error {
	return translate(s.db.WithContext(ctx).Create(k).Error)
}

func (s *KnowledgeStore) ReplaceKnowledge(ctx context.Context, k *model.KnowledgeEntry) error {
	return replace(ctx, s.db, &model.KnowledgeEntry{}, k.ID, k)
}

func (s *KnowledgeStore) UpsertKnowledge(ctx context.Context, k *model.KnowledgeEntry) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.KnowledgeEntry
		err := tx.Where("slug = ?", k.Slug).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(k).Error
		}
		if err != nil {
			return err
		}
		k.ID = existing.ID
		k.CreatedAt = existing.CreatedAt
		return tx.Model(&model.KnowledgeEntry{}).Where("id = ?", existing.ID).
			Select("title", "category", "content", "tags", "source").
			Updates(k).Error
	})
	return created, translate(err)
}

func (s *KnowledgeStore) DeleteKnowledge(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.KnowledgeEntry{}, id)
}
