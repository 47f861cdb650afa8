package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.InterviewsStore = (*InterviewsStore)(nil)

// InterviewsStore implements store.InterviewsStore using GORM
type InterviewsStore struct {
	db *gorm.DB
}

// NewInterviewsStore creates a new InterviewsStore
func NewInterviewsStore(db *gorm.DB) *InterviewsStore {
	return &InterviewsStore{db: db}
}

func (s *InterviewsStore) ListInterviews(ctx context.Context, f store.InterviewFilter) ([]model.Interview, error) {
	q := s.db.WithContext(ctx).Model(&model.Interview{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StorytellerID != nil {
		q = q.Where("storyteller_id = ?", *f.StorytellerID)
	}
	var interviews []model.Interview
	err := paginate(q, f.Page).Order("scheduled_at DESC").Order("created_at DESC").Find(&interviews).Error
	return interviews, translate(err)
}

func (s *InterviewsStore) GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	var i model.Interview
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		return nil, translate(err)
	}
	return &i, nil
}

func (s *InterviewsStore) CreateInterview(ctx context.Context, i *model.Interview) error {
	return translate(s.db.WithContext(ctx).Create(i).Error)
}

func (s *InterviewsStore) ReplaceInterview(ctx context.Context, i *model.Interview) error {
	return replace(ctx, s.db, &model.Interview{}, i.ID, i)
}

func (s *InterviewsStore) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.Interview{}, id)
}
