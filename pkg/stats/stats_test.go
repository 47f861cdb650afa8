package stats

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 33.3, Percent(1, 3))
	assert.Equal(t, 100.0, Percent(7, 7))
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(0, 0))
	assert.Equal(t, 0.25, Rate(1, 4))
	assert.False(t, math.IsNaN(Rate(3, 0)))
}

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 0.0, GrowthPercent(0, 12))
	assert.Equal(t, 100.0, GrowthPercent(5, 10))
	assert.Equal(t, -50.0, GrowthPercent(10, 5))
}

func TestGroupByMonth(t *testing.T) {
	times := []time.Time{
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, []Bucket{{Key: "2025-12", Count: 1}, {Key: "2026-03", Count: 2}}, GroupByMonth(times))
	assert.Empty(t, GroupByMonth(nil))
}

func TestGroupByKey(t *testing.T) {
	got := GroupByKey([]string{"sea", "land", "", "land", "sea", "air"})
	assert.Equal(t, []Bucket{
		{Key: "land", Count: 2},
		{Key: "sea", Count: 2},
		{Key: "air", Count: 1},
		{Key: Uncategorized, Count: 1},
	}, got)
}

func TestComputeImpact(t *testing.T) {
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	teller := uuid.New()
	idle := uuid.New()

	stories := []store.StoryRow{
		{StorytellerID: teller, Status: model.StoryPublished, ConsentGiven: true, CreatedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
		{StorytellerID: teller, Status: model.StoryDraft, CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{StorytellerID: teller, Status: model.StoryReview, ConsentGiven: true, CreatedAt: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)},
		{StorytellerID: teller, Status: model.StoryArchived, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	profiles := []store.ProfileRow{
		{ID: teller, Role: model.RoleStoryteller, IsActive: true},
		{ID: idle, Role: model.RoleStoryteller, IsActive: true},
		{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true},
	}
	media := []store.MediaRow{{Kind: model.MediaAudio, SizeBytes: 100}, {Kind: model.MediaImage, SizeBytes: 50}}
	projects := []store.ProjectRow{{Status: model.ProjectActive}, {Status: model.ProjectIdea}}

	got := ComputeImpact(now, stories, profiles, media, projects)

	assert.Equal(t, 4, got.TotalStories)
	assert.Equal(t, 1, got.PublishedStories)
	assert.Equal(t, 1, got.DraftStories)
	assert.Equal(t, 1, got.InReviewStories)
	assert.Equal(t, 2, got.Storytellers)
	assert.Equal(t, 1, got.ActiveStorytellers)
	assert.Equal(t, 2, got.MediaFiles)
	assert.Equal(t, int64(150), got.MediaBytes)
	assert.Equal(t, 1, got.ActiveProjects)
	assert.Equal(t, 25.0, got.PublishRate)
	assert.Equal(t, 50.0, got.ConsentRate)
	assert.Equal(t, 1, got.StoriesThisMonth)
	assert.Equal(t, 2, got.StoriesLastMonth)
	assert.Equal(t, -50.0, got.StoryGrowth)
}

func TestComputeImpact_Empty(t *testing.T) {
	got := ComputeImpact(time.Now(), nil, nil, nil, nil)
	assert.Zero(t, got.PublishRate)
	assert.Zero(t, got.ConsentRate)
	assert.Zero(t, got.StoryGrowth)
}

func TestComputeStoryBreakdown(t *testing.T) {
	rows := []store.StoryRow{
		{Category: "land", Status: model.StoryPublished, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Category: "land", Status: model.StoryDraft, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := ComputeStoryBreakdown(rows)
	assert.Equal(t, []Bucket{{Key: "land", Count: 2}}, got.ByCategory)
	assert.Len(t, got.ByMonth, 2)
	assert.Len(t, got.ByStatus, 2)
}
