package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// ProjectFilter narrows ListProjects
type ProjectFilter struct {
	Status model.ProjectStatus
	Funder string
	Page   Page
}

// ProjectsStore abstracts project storage operations
type ProjectsStore interface {
	ListProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	CreateProject(ctx context.Context, project *model.Project) error
	ReplaceProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
}
