package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// ActivityFilter narrows ListActivity
type ActivityFilter struct {
	Action     string
	EntityType string
	ActorID    *uuid.UUID
	Page       Page
}

// ActivityStore persists the audit trail
type ActivityStore interface {
	SaveActivity(ctx context.Context, activity *model.Activity) error

	// ListActivity returns newest first.
	ListActivity(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
}
