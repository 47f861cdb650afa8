package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.StatsStore = (*StatsStore)(nil)

// StatsStore implements store.StatsStore using GORM
type StatsStore struct {
	db *gorm.DB
}

// NewStatsStore creates a new StatsStore
func NewStatsStore(db *gorm.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) StoryRows(ctx context.Context, r store.TimeRange) ([]store.StoryRow, error) {
	var rows []store.StoryRow
	q := s.db.WithContext(ctx).Model(&model.Story{}).
		Select("id", "storyteller_id", "status", "category", "consent_given", "created_at", "published_at")
	err := inRange(q, "created_at", r).Order("created_at ASC").Scan(&rows).Error
	return rows, translate(err)
}

func (s *StatsStore) ProfileRows(ctx context.Context, r store.TimeRange) ([]store.ProfileRow, error) {
	var rows []store.ProfileRow
	q := s.db.WithContext(ctx).Model(&model.Profile{}).
		Select("id", "role", "is_active", "created_at")
	err := inRange(q, "created_at", r).Order("created_at ASC").Scan(&rows).Error
	return rows, translate(err)
}

func (s *StatsStore) MediaRows(ctx context.Context, r store.TimeRange) ([]store.MediaRow, error) {
	var rows []store.MediaRow
	q := s.db.WithContext(ctx).Model(&model.MediaFile{}).
		Select("kind", "size_bytes", "created_at")
	err := inRange(q, "created_at", r).Order("created_at ASC").Scan(&rows).Error
	return rows, translate(err)
}

func (s *StatsStore) ProjectRows(ctx context.Context) ([]store.ProjectRow, error) {
	var rows []store.ProjectRow
	err := s.db.WithContext(ctx).Model(&model.Project{}).
		Select("name", "status", "funder", "budget_cents", "created_at").
		Order("name ASC").Scan(&rows).Error
	return rows, translate(err)
}
