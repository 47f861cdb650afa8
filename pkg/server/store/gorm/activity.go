package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.ActivityStore = (*ActivityStore)(nil)

// ActivityStore implements store.ActivityStore using GORM
type ActivityStore struct {
	db *gorm.DB
}

// NewActivityStore creates a new ActivityStore
func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) SaveActivity(ctx context.Context, a *model.Activity) error {
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *ActivityStore) ListActivity(ctx context.Context, f store.ActivityFilter) ([]model.Activity, error) {
	q := s.db.WithContext(ctx).Model(&model.Activity{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.ActorID != nil {
		q = q.Where("actor_id = ?", *f.ActorID)
	}
	var out []model.Activity
	err := paginate(q, f.Page).Order("created_at DESC").Order("id ASC").Find(&out).Error
	return out, translate(err)
}
