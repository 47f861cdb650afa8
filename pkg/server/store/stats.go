package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// StoryRow is the projection of a story used for aggregation
type StoryRow struct {
	ID            uuid.UUID
	StorytellerID uuid.UUID
	Status        model.StoryStatus
	Category      string
	ConsentGiven  bool
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// ProfileRow is the projection of a profile used for aggregation
type ProfileRow struct {
	ID        uuid.UUID
	Role      model.Role
	IsActive  bool
	CreatedAt time.Time
}

// MediaRow is the projection of a media file used for aggregation
type MediaRow struct {
	Kind      model.MediaKind
	SizeBytes int64
	CreatedAt time.Time
}

// ProjectRow is the projection of a project used for aggregation
type ProjectRow struct {
	Name        string
	Status      model.ProjectStatus
	Funder      string
	BudgetCents int64
	CreatedAt   time.Time
}

// StatsStore loads narrow row projections; counting and grouping happen in
// the stats package so every dialect produces the same numbers.
type StatsStore interface {
	StoryRows(ctx context.Context, r TimeRange) ([]StoryRow, error)
	ProfileRows(ctx context.Context, r TimeRange) ([]ProfileRow, error)
	MediaRows(ctx context.Context, r TimeRange) ([]MediaRow, error)
	ProjectRows(ctx context.Context) ([]ProjectRow, error)
}
