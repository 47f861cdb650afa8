package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// StoryFilter narrows ListStories and CountStories
type StoryFilter struct {
	Status        model.StoryStatus
	Category      string
	StorytellerID *uuid.UUID
	Search        string
	FeaturedOnly  bool
	// PublicOnly restricts results to published stories with consent.
	PublicOnly bool
	Page       Page
}

// StoryPatch carries the fields of a partial update. Nil fields are left alone.
// Status is not patchable; use SetStoryStatus.
type StoryPatch struct {
	Title        *string
	Summary      *string
	Content      *string
	Category     *string
	Tags         *[]string
	IsFeatured   *bool
	ConsentGiven *bool
	Metadata     datatypes.JSON
}

// StoriesStore abstracts story storage operations
type StoriesStore interface {
	ListStories(ctx context.Context, filter StoryFilter) ([]model.Story, error)
	CountStories(ctx context.Context, filter StoryFilter) (int64, error)
	GetStory(ctx context.Context, id uuid.UUID) (*model.Story, error)
	GetStoryBySlug(ctx context.Context, slug string) (*model.Story, error)
	FindStoryByExternalID(ctx context.Context, externalID string) (*model.Story, error)

	// CreateStory derives a unique slug from the title when Slug is empty.
	CreateStory(ctx context.Context, story *model.Story) error
	UpdateStory(ctx context.Context, id uuid.UUID, patch StoryPatch) (*model.Story, error)

	// SetStoryStatus changes workflow state. PublishedAt is stamped the first
	// time a story is published and kept afterwards.
	SetStoryStatus(ctx context.Context, id uuid.UUID, status model.StoryStatus) (*model.Story, error)
	DeleteStory(ctx context.Context, id uuid.UUID) error
}
