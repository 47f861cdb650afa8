package gorm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func TestKnowledgeStore_UpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	s := NewKnowledgeStore(newTestDB(t))

	entry := &model.KnowledgeEntry{
		Slug:     "recording-consent",
		Title:    "Recording consent",
		Category: "Consent",
		Content:  "Ask before you press record.",
		Tags:     []string{"consent", "audio"},
	}
	created, err := s.UpsertKnowledge(ctx, entry)
	require.NoError(t, err)
	assert.True(t, created)

	again := &model.KnowledgeEntry{
		Slug:     "recording-consent",
		Title:    "Recording consent (revised)",
		Category: "Consent",
		Content:  "Ask, then ask again.",
		Tags:     []string{"consent"},
	}
	created, err = s.UpsertKnowledge(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entry.ID, again.ID)

	got, err := s.GetKnowledgeBySlug(ctx, "recording-consent")
	require.NoError(t, err)
	assert.Equal(t, "Recording consent (revised)", got.Title)

	require.NoError(t, s.CreateKnowledge(ctx, &model.KnowledgeEntry{
		Slug: "tapu-sites", Title: "Visiting tapu sites", Category: "Protocols", Tags: []string{"audio-free"},
	}))

	hits, err := s.SearchKnowledge(ctx, "AUDIO", store.KnowledgeFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "tapu-sites", hits[0].Slug)

	hits, err = s.SearchKnowledge(ctx, "ask", store.KnowledgeFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = s.SearchKnowledge(ctx, "100%", store.KnowledgeFilter{})
	require.NoError(t, err)
	assert.Empty(t, hits)

	list, err := s.ListKnowledge(ctx, "Protocols", store.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteKnowledge(ctx, got.ID))
	assert.ErrorIs(t, s.DeleteKnowledge(ctx, got.ID), store.ErrNotFound)
}

func TestKnowledgeStore_SearchFilters(t *testing.T) {
	ctx := context.Background()
	s := NewKnowledgeStore(newTestDB(t))

	for i := 0; i < 10; i++ {
		require.NoError(t, s.CreateKnowledge(ctx, &model.KnowledgeEntry{
			Slug: fmt.Sprintf("note-%d", i), Title: fmt.Sprintf("A%d", i), Category: "history",
			Content: "We camped by the river.",
		}))
	}
	require.NoError(t, s.CreateKnowledge(ctx, &model.KnowledgeEntry{
		Slug: "river-guide", Title: "Zz River guide", Category: "Places", IsPublished: true,
	}))

	all, err := s.SearchKnowledge(ctx, "river", store.KnowledgeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 11)

	places, err := s.SearchKnowledge(ctx, "river", store.KnowledgeFilter{Category: "places"})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "river-guide", places[0].Slug)

	published, err := s.SearchKnowledge(ctx, "river", store.KnowledgeFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "river-guide", published[0].Slug)
}
