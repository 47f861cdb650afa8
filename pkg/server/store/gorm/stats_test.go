package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func TestStatsStore_Rows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	for _, st := range []*model.Story{
		{StorytellerID: teller.ID, Title: "Jan", Slug: "jan", Category: "land", CreatedAt: jan},
		{StorytellerID: teller.ID, Title: "Feb", Slug: "feb", Category: "sea", ConsentGiven: true, CreatedAt: feb},
	} {
		require.NoError(t, db.Create(st).Error)
	}
	require.NoError(t, db.Create(&model.MediaFile{FileName: "a.mp3", StorageKey: "audio/a.mp3", Kind: model.MediaAudio, SizeBytes: 10, CreatedAt: feb}).Error)
	require.NoError(t, db.Create(&model.Project{Name: "Archive", BudgetCents: 100}).Error)

	s := NewStatsStore(db)

	all, err := s.StoryRows(ctx, store.TimeRange{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "land", all[0].Category)
	assert.Equal(t, teller.ID, all[0].StorytellerID)

	febOnly, err := s.StoryRows(ctx, store.TimeRange{From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, febOnly, 1)
	assert.True(t, febOnly[0].ConsentGiven)

	profiles, err := s.ProfileRows(ctx, store.TimeRange{})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, model.RoleStoryteller, profiles[0].Role)

	media, err := s.MediaRows(ctx, store.TimeRange{To: jan})
	require.NoError(t, err)
	assert.Empty(t, media)

	projects, err := s.ProjectRows(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(100), projects[0].BudgetCents)
}
