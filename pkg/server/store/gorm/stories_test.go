package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func seedStoryteller(t *testing.T, s *ProfilesStore) *model.Profile {
	t.Helper()
	p := &model.Profile{DisplayName: "Mere", IsActive: true}
	require.NoError(t, s.CreateProfile(context.Background(), p))
	return p
}

func TestStoriesStore_SlugCollisions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))
	s := NewStoriesStore(db)

	first := &model.Story{StorytellerID: teller.ID, Title: "The River Remembers"}
	second := &model.Story{StorytellerID: teller.ID, Title: "The river remembers!"}
	third := &model.Story{StorytellerID: teller.ID, Title: "¿?"}
	require.NoError(t, s.CreateStory(ctx, first))
	require.NoError(t, s.CreateStory(ctx, second))
	require.NoError(t, s.CreateStory(ctx, third))

	assert.Equal(t, "the-river-remembers", first.Slug)
	assert.Equal(t, "the-river-remembers-2", second.Slug)
	assert.Equal(t, "untitled", third.Slug)
	assert.Equal(t, model.StoryDraft, first.Status)

	got, err := s.GetStoryBySlug(ctx, "the-river-remembers-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestStoriesStore_PublishStampsOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))
	s := NewStoriesStore(db)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	story := &model.Story{StorytellerID: teller.ID, Title: "Harvest"}
	require.NoError(t, s.CreateStory(ctx, story))
	assert.Nil(t, story.PublishedAt)

	published, err := s.SetStoryStatus(ctx, story.ID, model.StoryPublished)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, clock.Equal(*published.PublishedAt))

	clock = clock.Add(48 * time.Hour)
	_, err = s.SetStoryStatus(ctx, story.ID, model.StoryArchived)
	require.NoError(t, err)
	again, err := s.SetStoryStatus(ctx, story.ID, model.StoryPublished)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Equal(*again.PublishedAt))

	_, err = s.SetStoryStatus(ctx, story.ID, model.StoryStatus("deleted"))
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = s.SetStoryStatus(ctx, uuid.New(), model.StoryReview)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoriesStore_PublicFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))
	s := NewStoriesStore(db)

	stories := []*model.Story{
		{StorytellerID: teller.ID, Title: "Visible", Status: model.StoryPublished, ConsentGiven: true, Category: "land"},
		{StorytellerID: teller.ID, Title: "No consent", Status: model.StoryPublished},
		{StorytellerID: teller.ID, Title: "Draft", ConsentGiven: true, Category: "land"},
	}
	for _, st := range stories {
		require.NoError(t, s.CreateStory(ctx, st))
	}
	require.NotNil(t, stories[0].PublishedAt)

	public, err := s.ListStories(ctx, store.StoryFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Visible", public[0].Title)

	land, err := s.CountStories(ctx, store.StoryFilter{Category: "land"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), land)

	found, err := s.ListStories(ctx, store.StoryFilter{Search: "consent"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestStoriesStore_UpdateStory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))
	s := NewStoriesStore(db)

	story := &model.Story{StorytellerID: teller.ID, Title: "Harvest", ConsentGiven: true, Tags: []string{"food"}}
	require.NoError(t, s.CreateStory(ctx, story))

	tags := []string{"food", "whanau"}
	updated, err := s.UpdateStory(ctx, story.ID, store.StoryPatch{
		Summary:      strPtr("Autumn kai"),
		Tags:         &tags,
		ConsentGiven: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Autumn kai", updated.Summary)
	assert.Equal(t, []string{"food", "whanau"}, []string(updated.Tags))
	assert.False(t, updated.ConsentGiven)
	assert.Equal(t, "harvest", updated.Slug)

	_, err = s.UpdateStory(ctx, uuid.New(), store.StoryPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteStory(ctx, story.ID))
	assert.ErrorIs(t, s.DeleteStory(ctx, story.ID), store.ErrNotFound)
}

func TestStoriesStore_DuplicateExternalID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))
	s := NewStoriesStore(db)

	require.NoError(t, s.CreateStory(ctx, &model.Story{StorytellerID: teller.ID, Title: "One", ExternalID: strPtr("s-1")}))
	err := s.CreateStory(ctx, &model.Story{StorytellerID: teller.ID, Title: "Two", ExternalID: strPtr("s-1")})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	found, err := s.FindStoryByExternalID(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "One", found.Title)
}
