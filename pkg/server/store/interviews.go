package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// InterviewFilter narrows ListInterviews
type InterviewFilter struct {
	Status        model.InterviewStatus
	StorytellerID *uuid.UUID
	Page          Page
}

// InterviewsStore abstracts interview storage operations
type InterviewsStore interface {
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]model.Interview, error)
	GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error)
	CreateInterview(ctx context.Context, interview *model.Interview) error

	// ReplaceInterview overwrites every editable column of the row with the given id.
	ReplaceInterview(ctx context.Context, interview *model.Interview) error
	DeleteInterview(ctx context.Context, id uuid.UUID) error
}
