package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func TestMediaStore_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	teller := seedStoryteller(t, NewProfilesStore(db))
	stories := NewStoriesStore(db)
	s := NewMediaStore(db)

	story := &model.Story{StorytellerID: teller.ID, Title: "River"}
	require.NoError(t, stories.CreateStory(ctx, story))

	m := &model.MediaFile{
		StoryID:     &story.ID,
		FileName:    "river.jpg",
		StorageKey:  "image/abc.jpg",
		ContentType: "image/jpeg",
		Kind:        model.MediaImage,
		SizeBytes:   42,
		SHA256:      "deadbeef",
	}
	require.NoError(t, s.CreateMedia(ctx, m))

	found, err := s.FindMediaBySHA256(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, m.ID, found.ID)

	_, err = s.FindMediaBySHA256(ctx, "cafe")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListMedia(ctx, store.MediaFilter{StoryID: &story.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := s.CountMedia(ctx, store.MediaFilter{Kind: model.MediaAudio})
	require.NoError(t, err)
	assert.Zero(t, n)

	updated, err := s.UpdateMedia(ctx, m.ID, store.MediaPatch{AltText: strPtr("a braided river"), DetachStory: true})
	require.NoError(t, err)
	assert.Equal(t, "a braided river", updated.AltText)
	assert.Nil(t, updated.StoryID)

	dup := *m
	dup.ID = uuid.Nil
	assert.ErrorIs(t, s.CreateMedia(ctx, &dup), store.ErrDuplicate)

	require.NoError(t, s.DeleteMedia(ctx, m.ID))
	_, err = s.GetMedia(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
