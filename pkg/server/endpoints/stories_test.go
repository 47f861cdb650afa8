package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
)

func createStory(t *testing.T, env *testEnv, token string, body map[string]interface{}) model.Story {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/stories", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var story model.Story
	decode(t, rec, &story)
	return story
}

func TestStoryOwnership(t *testing.T) {
	env := newTestEnv(t)
	teller, tellerToken := env.profile(t, model.RoleStoryteller, model.Permissions{})
	other, otherToken := env.profile(t, model.RoleStoryteller, model.Permissions{})
	_, editorToken := env.profile(t, model.RoleEditor, model.Permissions{})

	own := createStory(t, env, tellerToken, map[string]interface{}{
		"title":       "River Crossing",
		"content":     "# Hello\n\nWe crossed at dawn.",
		"is_featured": true,
		"tags":        []string{"water", "country"},
	})
	assert.Equal(t, teller.ID, own.StorytellerID)
	assert.Equal(t, model.StoryDraft, own.Status)
	assert.Equal(t, "river-crossing", own.Slug)
	assert.False(t, own.IsFeatured, "storytellers cannot feature their own story")
	assert.Nil(t, own.PublishedAt)

	t.Run("cannot create for someone else", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/stories", tellerToken, map[string]interface{}{
			"title":          "Not Mine",
			"storyteller_id": other.ID,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("editor creates for a storyteller", func(t *testing.T) {
		story := createStory(t, env, editorToken, map[string]interface{}{
			"title":          "River Crossing",
			"storyteller_id": other.ID,
			"is_featured":    true,
		})
		assert.Equal(t, other.ID, story.StorytellerID)
		assert.Equal(t, "river-crossing-2", story.Slug)
		assert.True(t, story.IsFeatured)
	})

	t.Run("unknown storyteller", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/stories", editorToken, map[string]interface{}{
			"title":          "Orphan",
			"storyteller_id": "00000000-0000-0000-0000-000000000001",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list is limited to own stories", func(t *testing.T) {
		var body struct {
			Items []model.Story `json:"items"`
			Total int64         `json:"total"`
		}
		rec := env.do(t, http.MethodGet, "/stories?storyteller_id="+other.ID.String(), tellerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &body)
		require.Len(t, body.Items, 1)
		assert.Equal(t, own.ID, body.Items[0].ID)

		rec = env.do(t, http.MethodGet, "/stories", editorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &body)
		assert.Equal(t, int64(2), body.Total)
	})

	t.Run("other storyteller is refused", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/stories/"+own.ID.String(), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodDelete, "/stories/"+own.ID.String(), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner patches", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/stories/"+own.ID.String(), tellerToken, map[string]interface{}{
			"summary":       "A crossing at dawn",
			"consent_given": true,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var story model.Story
		decode(t, rec, &story)
		assert.Equal(t, "A crossing at dawn", story.Summary)
		assert.True(t, story.ConsentGiven)
		assert.Equal(t, "River Crossing", story.Title)
	})

	t.Run("owner cannot feature", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/stories/"+own.ID.String(), tellerToken, map[string]interface{}{
			"is_featured": true,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("empty patch", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/stories/"+own.ID.String(), tellerToken, map[string]interface{}{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/stories/"+own.ID.String(), tellerToken, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/stories/"+own.ID.String(), tellerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStoryStatus(t *testing.T) {
	env := newTestEnv(t)
	_, tellerToken := env.profile(t, model.RoleStoryteller, model.Permissions{})
	_, plainEditor := env.profile(t, model.RoleEditor, model.Permissions{})
	_, publisher := env.profile(t, model.RoleEditor, model.Permissions{CanPublish: true})

	story := createStory(t, env, tellerToken, map[string]interface{}{
		"title":         "Bush Tucker",
		"consent_given": true,
	})
	path := "/stories/" + story.ID.String() + "/status"

	setStatus := func(token string, status model.StoryStatus) (int, model.Story) {
		rec := env.do(t, http.MethodPut, path, token, map[string]interface{}{"status": status})
		var out model.Story
		if rec.Code == http.StatusOK {
			decode(t, rec, &out)
		}
		return rec.Code, out
	}

	code, out := setStatus(tellerToken, model.StoryReview)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.StoryReview, out.Status)

	code, _ = setStatus(tellerToken, model.StoryArchived)
	require.Equal(t, http.StatusOK, code, "unpublished stories may be archived by their owner")
	code, _ = setStatus(tellerToken, model.StoryReview)
	require.Equal(t, http.StatusOK, code)

	code, _ = setStatus(tellerToken, model.StoryPublished)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = setStatus(plainEditor, model.StoryPublished)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = setStatus(publisher, model.StoryPublished)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, out.PublishedAt)
	first := *out.PublishedAt

	for _, status := range []model.StoryStatus{model.StoryArchived, model.StoryDraft, model.StoryReview} {
		code, _ = setStatus(tellerToken, status)
		assert.Equal(t, http.StatusForbidden, code, "owner without publish permission moving a published story to %s", status)
	}

	code, out = setStatus(publisher, model.StoryArchived)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, out.PublishedAt)
	assert.True(t, first.Equal(*out.PublishedAt))

	code, out = setStatus(publisher, model.StoryPublished)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, first.Equal(*out.PublishedAt), "first publication date is kept")

	rec := env.do(t, http.MethodPut, path, publisher, map[string]interface{}{"status": "deleted"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "status must be one of [draft review published archived]", errorMessage(t, rec))
}
