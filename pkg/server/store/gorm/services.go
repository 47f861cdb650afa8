package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.ServicesStore = (*ServicesStore)(nil)

// ServicesStore implements store.ServicesStore using GORM
type ServicesStore struct {
	db *gorm.DB
}

// NewServicesStore creates a new ServicesStore
func NewServicesStore(db *gorm.DB) *ServicesStore {
	return &ServicesStore{db: db}
}

func (s *ServicesStore) ListServices(ctx context.Context, activeOnly bool) ([]model.OrganizationService, error) {
	q := s.db.WithContext(ctx).Model(&model.OrganizationService{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var services []model.OrganizationService
	err := q.Order("sort_order ASC").Order("name ASC").Find(&services).Error
	return services, translate(err)
}

func (s *ServicesStore) GetService(ctx context.Context, id uuid.UUID) (*model.OrganizationService, error) {
	var o model.OrganizationService
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *ServicesStore) CreateService(ctx context.Context, o *model.OrganizationService) error {
	return translate(s.db.WithContext(ctx).Create(o).Error)
}

func (s *ServicesStore) ReplaceService(ctx context.Context, o *model.OrganizationService) error {
	return replace(ctx, s.db, &model.OrganizationService{}, o.ID, o)
}

func (s *ServicesStore) DeleteService(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.OrganizationService{}, id)
}
