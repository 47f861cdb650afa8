package gorm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

func (s *ProjectsStore) ListProjects(ctx context.Context, f store.ProjectFilter) ([]model.Project, error) {
	q := s.db.WithContext(ctx).Model(&model.Project{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Funder != "" {
		q = q.Where("LOWER(funder) = ?", strings.ToLower(strings.TrimSpace(f.Funder)))
	}
	var projects []model.Project
	err := paginate(q, f.Page).Order("name ASC").Find(&projects).Error
	return projects, translate(err)
}

func (s *ProjectsStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *ProjectsStore) CreateProject(ctx context.Context, p *model.Project) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *ProjectsStore) ReplaceProject(ctx context.Context, p *model.Project) error {
	return replace(ctx, s.db, &model.Project{}, p.ID, p)
}

func (s *ProjectsStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.Project{}, id)
}
