package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// MediaFilter narrows ListMedia
type MediaFilter struct {
	Kind      model.MediaKind
	StoryID   *uuid.UUID
	ProfileID *uuid.UUID
	Page      Page
}

// MediaPatch carries editable media metadata. Nil fields are left alone.
type MediaPatch struct {
	Title   *string
	AltText *string
	StoryID *uuid.UUID
	// DetachStory clears story_id; it wins over StoryID.
	DetachStory bool
}

// MediaStore abstracts media file metadata storage
type MediaStore interface {
	ListMedia(ctx context.Context, filter MediaFilter) ([]model.MediaFile, error)
	CountMedia(ctx context.Context, filter MediaFilter) (int64, error)
	GetMedia(ctx context.Context, id uuid.UUID) (*model.MediaFile, error)

	// FindMediaBySHA256 returns ErrNotFound when no file has the digest.
	FindMediaBySHA256(ctx context.Context, sum string) (*model.MediaFile, error)
	CreateMedia(ctx context.Context, media *model.MediaFile) error
	UpdateMedia(ctx context.Context, id uuid.UUID, patch MediaPatch) (*model.MediaFile, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}
