package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/server/store/mocks"
	"github.com/storyhub-org/storyhub/pkg/stats"
)

var (
	periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	now         = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func newGenerator(s store.StatsStore) *Generator {
	g := NewGenerator(s)
	g.Now = func() time.Time { return now }
	return g
}

func TestFunder(t *testing.T) {
	teller := uuid.New()
	period := store.TimeRange{From: periodStart, To: periodEnd}

	m := new(mocks.StatsStore)
	m.On("StoryRows", mock.Anything, store.TimeRange{}).Return([]store.StoryRow{
		{StorytellerID: teller, Category: "land", ConsentGiven: true, Status: model.StoryPublished, CreatedAt: at(2026, 1, 5), PublishedAt: ptr(at(2026, 2, 1))},
		{StorytellerID: teller, Category: "land", Status: model.StoryDraft, CreatedAt: at(2026, 2, 5)},
		{StorytellerID: teller, Category: "", ConsentGiven: true, Status: model.StoryReview, CreatedAt: at(2026, 3, 5)},
		{StorytellerID: teller, Category: "sea", ConsentGiven: true, Status: model.StoryPublished, CreatedAt: at(2025, 11, 5), PublishedAt: ptr(at(2026, 1, 10))},
		{StorytellerID: teller, Category: "sea", Status: model.StoryPublished, CreatedAt: at(2025, 6, 5), PublishedAt: ptr(at(2025, 7, 1))},
	}, nil)
	m.On("ProfileRows", mock.Anything, period).Return([]store.ProfileRow{
		{Role: model.RoleStoryteller}, {Role: model.RoleStoryteller}, {Role: model.RoleEditor},
	}, nil)
	m.On("MediaRows", mock.Anything, period).Return([]store.MediaRow{
		{Kind: model.MediaImage, SizeBytes: 2048}, {Kind: model.MediaImage, SizeBytes: 1024}, {Kind: model.MediaAudio, SizeBytes: 1024},
	}, nil)
	m.On("ProjectRows", mock.Anything).Return([]store.ProjectRow{
		{Name: "Oral history van", Status: model.ProjectActive, Funder: "Lotteries", BudgetCents: 1250000},
		{Name: "Language nest", Status: model.ProjectIdea, Funder: " Council "},
		{Name: "Archive", Status: model.ProjectActive},
	}, nil)

	rep, err := newGenerator(m).Funder(context.Background(), periodStart, periodEnd)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.StoriesCollected)
	assert.Equal(t, 2, rep.StoriesPublished)
	assert.Equal(t, 66.7, rep.ConsentRate)
	assert.Equal(t, 2, rep.NewStorytellers)
	assert.Equal(t, 3, rep.MediaUploaded)
	assert.Equal(t, int64(4096), rep.MediaBytes)
	assert.Equal(t, []stats.Bucket{{Key: "image", Count: 2}, {Key: "audio", Count: 1}}, rep.MediaByKind)
	assert.Equal(t, []stats.Bucket{{Key: "land", Count: 2}, {Key: stats.Uncategorized, Count: 1}}, rep.TopCategories)
	assert.Equal(t, []stats.Bucket{{Key: "active", Count: 2}, {Key: "idea", Count: 1}}, rep.ProjectsByStatus)
	assert.Equal(t, []string{"Council", "Lotteries"}, rep.Funders)
	assert.Equal(t, now, rep.GeneratedAt)

	md := rep.Markdown()
	assert.Contains(t, md, "Period: 1 Jan 2026 to 31 Mar 2026")
	assert.Contains(t, md, "| Oral history van | active | Lotteries | $12500.00 |")
	assert.Contains(t, md, "| Archive | active | - | $0.00 |")
	assert.Contains(t, md, "3 files uploaded (4.0 KiB)")

	html, err := rep.HTML()
	require.NoError(t, err)
	assert.Contains(t, string(html), "<table>")
}

func TestFunder_EmptyPeriod(t *testing.T) {
	m := new(mocks.StatsStore)
	m.On("StoryRows", mock.Anything, mock.Anything).Return([]store.StoryRow{}, nil)
	m.On("ProfileRows", mock.Anything, mock.Anything).Return([]store.ProfileRow{}, nil)
	m.On("MediaRows", mock.Anything, mock.Anything).Return([]store.MediaRow{}, nil)
	m.On("ProjectRows", mock.Anything).Return([]store.ProjectRow{}, nil)

	rep, err := newGenerator(m).Funder(context.Background(), periodStart, periodEnd)
	require.NoError(t, err)
	assert.Zero(t, rep.ConsentRate)
	assert.Empty(t, rep.Funders)
	assert.Contains(t, rep.Markdown(), "No projects recorded.")
}

func TestFunder_InvalidPeriod(t *testing.T) {
	_, err := newGenerator(new(mocks.StatsStore)).Funder(context.Background(), periodEnd, periodStart)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestImpact_PropagatesErrors(t *testing.T) {
	m := new(mocks.StatsStore)
	m.On("StoryRows", mock.Anything, mock.Anything).Return([]store.StoryRow{}, nil)
	m.On("ProfileRows", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
	m.On("MediaRows", mock.Anything, mock.Anything).Return([]store.MediaRow{}, nil)
	m.On("ProjectRows", mock.Anything).Return([]store.ProjectRow{}, nil)

	_, err := newGenerator(m).Impact(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestImpact(t *testing.T) {
	m := new(mocks.StatsStore)
	m.On("StoryRows", mock.Anything, store.TimeRange{}).Return([]store.StoryRow{
		{Status: model.StoryPublished, ConsentGiven: true, CreatedAt: now},
	}, nil)
	m.On("ProfileRows", mock.Anything, store.TimeRange{}).Return([]store.ProfileRow{}, nil)
	m.On("MediaRows", mock.Anything, store.TimeRange{}).Return([]store.MediaRow{}, nil)
	m.On("ProjectRows", mock.Anything).Return([]store.ProjectRow{}, nil)

	got, err := newGenerator(m).Impact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalStories)
	assert.Equal(t, 100.0, got.PublishRate)
	assert.Equal(t, 1, got.StoriesThisMonth)
}

func TestMoneyAndBytes(t *testing.T) {
	assert.Equal(t, "-$1.05", money(-105))
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.5 MiB", humanBytes(1536*1024))
}
