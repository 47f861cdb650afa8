package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// ServicesStore abstracts organisation service storage operations
type ServicesStore interface {
	// ListServices orders by sort_order then name.
	ListServices(ctx context.Context, activeOnly bool) ([]model.OrganizationService, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.OrganizationService, error)
	CreateService(ctx context.Context, service *model.OrganizationService) error
	ReplaceService(ctx context.Context, service *model.OrganizationService) error
	DeleteService(ctx context.Context, id uuid.UUID) error
}
