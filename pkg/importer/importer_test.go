package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	gormstore "github.com/storyhub-org/storyhub/pkg/server/store/gorm"
	"github.com/storyhub-org/storyhub/pkg/server/store/mocks"
	"github.com/storyhub-org/storyhub/pkg/server/store/storetest"
)

func newSQLiteImporter(t *testing.T) *Importer {
	db := storetest.NewSQLite(t)
	return New(gormstore.NewProfilesStore(db), gormstore.NewStoriesStore(db))
}

func TestImport_SkipsExistingExternalIDs(t *testing.T) {
	ctx := context.Background()
	im := newSQLiteImporter(t)

	bundle := Bundle{
		Profiles: []ProfileRecord{
			{ExternalID: "p-1", DisplayName: "Aunty June", Email: "June@Example.org"},
			{ExternalID: "p-2", DisplayName: "Uncle Ray"},
			{ExternalID: "p-1", DisplayName: "Aunty June again"},
		},
		Stories: []StoryRecord{
			{ExternalID: "s-1", StorytellerExternalID: "p-1", Title: "River Days", Status: "published", ConsentGiven: true},
			{ExternalID: "s-2", StorytellerExternalID: "p-2", Title: "River Days"},
			{ExternalID: "s-3", StorytellerExternalID: "p-9", Title: "Lost"},
		},
	}

	first := im.Import(ctx, bundle)
	assert.Equal(t, 2, first.Profiles.Created)
	assert.Equal(t, 1, first.Profiles.Skipped)
	assert.Equal(t, 2, first.Stories.Created)
	assert.Equal(t, 1, first.Stories.Failed)
	require.Len(t, first.Stories.Errors, 1)
	assert.Equal(t, "s-3", first.Stories.Errors[0].ExternalID)
	assert.Contains(t, first.Stories.Errors[0].Message, "unknown storyteller")

	second := im.Import(ctx, bundle)
	assert.Zero(t, second.Profiles.Created)
	assert.Equal(t, 3, second.Profiles.Skipped)
	assert.Zero(t, second.Stories.Created)
	assert.Equal(t, 2, second.Stories.Skipped)

	n, err := im.Profiles.CountProfiles(ctx, store.ProfileFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	stories, err := im.Stories.ListStories(ctx, store.StoryFilter{})
	require.NoError(t, err)
	require.Len(t, stories, 2)
	slugs := []string{stories[0].Slug, stories[1].Slug}
	assert.ElementsMatch(t, []string{"river-days", "river-days-2"}, slugs)

	june, err := im.Profiles.FindProfileByExternalID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "june@example.org", *june.Email)
	assert.Equal(t, model.RoleStoryteller, june.Role)
	assert.True(t, june.IsActive)

	published, err := im.Stories.FindStoryByExternalID(ctx, "s-1")
	require.NoError(t, err)
	assert.NotNil(t, published.PublishedAt)
}

func TestImportProfiles_InvalidRecords(t *testing.T) {
	im := newSQLiteImporter(t)

	res := im.ImportProfiles(context.Background(), []ProfileRecord{
		{DisplayName: "No id"},
		{ExternalID: "p-1"},
		{ExternalID: "p-2", DisplayName: "Bad", Email: "not-an-email"},
		{ExternalID: "p-3", DisplayName: "Bad", Role: "owner"},
		{ExternalID: "  p-4 ", DisplayName: "Fine"},
	})

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 4, res.Failed)
	assert.Len(t, res.Errors, 4)
}

func TestImportProfiles_DuplicateRaceCountsAsSkip(t *testing.T) {
	profiles := new(mocks.ProfilesStore)
	profiles.On("FindProfileByExternalID", mock.Anything, "p-1").Return(nil, store.ErrNotFound).Once()
	profiles.On("CreateProfile", mock.Anything, mock.Anything).Return(store.ErrDuplicate)
	profiles.On("FindProfileByExternalID", mock.Anything, "p-1").Return(&model.Profile{DisplayName: "Racer"}, nil).Once()

	res := New(profiles, new(mocks.StoriesStore)).ImportProfiles(context.Background(), []ProfileRecord{
		{ExternalID: "p-1", DisplayName: "Racer"},
	})

	assert.Equal(t, Result{Skipped: 1}, res)
	profiles.AssertExpectations(t)
}

func TestImportProfiles_EmailCollisionFails(t *testing.T) {
	ctx := context.Background()
	im := newSQLiteImporter(t)

	res := im.ImportProfiles(ctx, []ProfileRecord{
		{ExternalID: "p-1", DisplayName: "First", Email: "same@example.org"},
		{ExternalID: "p-2", DisplayName: "Second", Email: "Same@Example.org"},
	})

	assert.Equal(t, 1, res.Created)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "p-2", res.Errors[0].ExternalID)
	assert.Contains(t, res.Errors[0].Message, store.ErrDuplicate.Error())

	_, err := im.Profiles.FindProfileByExternalID(ctx, "p-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportProfiles_LookupFailure(t *testing.T) {
	profiles := new(mocks.ProfilesStore)
	profiles.On("FindProfileByExternalID", mock.Anything, "p-1").Return(nil, errors.New("db down"))

	res := New(profiles, new(mocks.StoriesStore)).ImportProfiles(context.Background(), []ProfileRecord{
		{ExternalID: "p-1", DisplayName: "Someone"},
	})

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "db down", res.Errors[0].Message)
	profiles.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestImportStories_ResolvesStorytellerOnce(t *testing.T) {
	teller := &model.Profile{DisplayName: "Aunty June"}
	require.NoError(t, teller.BeforeCreate(nil))

	profiles := new(mocks.ProfilesStore)
	profiles.On("FindProfileByExternalID", mock.Anything, "p-1").Return(teller, nil).Once()

	stories := new(mocks.StoriesStore)
	stories.On("FindStoryByExternalID", mock.Anything, mock.Anything).Return(nil, store.ErrNotFound)
	stories.On("CreateStory", mock.Anything, mock.MatchedBy(func(s *model.Story) bool {
		return s.StorytellerID == teller.ID && s.Tags != nil
	})).Return(nil)

	res := New(profiles, stories).ImportStories(context.Background(), []StoryRecord{
		{ExternalID: "s-1", StorytellerExternalID: "p-1", Title: "One"},
		{ExternalID: "s-2", StorytellerExternalID: "p-1", Title: "Two"},
	})

	assert.Equal(t, 2, res.Created)
	profiles.AssertExpectations(t)
	stories.AssertNumberOfCalls(t, "CreateStory", 2)
}

func TestImport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(new(mocks.ProfilesStore), new(mocks.StoriesStore)).ImportProfiles(ctx, []ProfileRecord{
		{ExternalID: "p-1", DisplayName: "A"},
	})
	assert.Equal(t, 1, res.Failed)
}
