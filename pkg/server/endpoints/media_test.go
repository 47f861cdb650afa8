package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/uploads"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nnot really a png")

func TestUploadBatch(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.profile(t, model.RoleStoryteller, model.Permissions{CanUpload: true})

	req := multipartRequest(t, "/media/uploads", nil,
		part{field: "files", name: "dawn.png", contentType: "image/png", data: pngBytes},
		part{field: "files", name: "dawn-copy.png", contentType: "image/png", data: pngBytes},
		part{field: "files", name: "archive.zip", contentType: "application/zip", data: []byte("PK")},
	)
	rec := env.send(req, token)
	require.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())

	var body UploadResponse
	decode(t, rec, &body)
	assert.Equal(t, uploads.Summary{Total: 3, Success: 1, Error: 1, Skipped: 1, Pending: 0}, body.Summary)
	require.Len(t, body.Items, 3)
	assert.Equal(t, uploads.StatusSuccess, body.Items[0].Status)
	assert.Equal(t, uploads.StatusSkipped, body.Items[1].Status)
	assert.Equal(t, body.Items[0].MediaID, body.Items[1].DuplicateOf)
	assert.Equal(t, uploads.StatusError, body.Items[2].Status)
	assert.Contains(t, body.Items[2].Error, "unsupported file type")

	mediaID := body.Items[0].MediaID.String()

	t.Run("content is served", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/media/"+mediaID+"/content", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get("ETag"))
		assert.Equal(t, pngBytes, rec.Body.Bytes())
	})

	t.Run("metadata", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/media/"+mediaID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var m model.MediaFile
		decode(t, rec, &m)
		assert.Equal(t, model.MediaImage, m.Kind)
		assert.Equal(t, "dawn", m.Title)
		assert.Equal(t, int64(len(pngBytes)), m.SizeBytes)
	})

	t.Run("list by kind", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/media?kind=image", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Total int64 `json:"total"`
		}
		decode(t, rec, &list)
		assert.Equal(t, int64(1), list.Total)

		rec = env.do(t, http.MethodGet, "/media?kind=hologram", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete removes content", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/media/"+mediaID, token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/media/"+mediaID+"/content", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUploadAllSucceed(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.profile(t, model.RoleStoryteller, model.Permissions{CanUpload: true})

	req := multipartRequest(t, "/media/uploads", nil,
		part{field: "files", name: "notes.txt", contentType: "text/plain", data: []byte("notes")},
	)
	rec := env.send(req, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUploadSingle(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.profile(t, model.RoleStoryteller, model.Permissions{CanUpload: true})
	_, otherToken := env.profile(t, model.RoleStoryteller, model.Permissions{CanUpload: true})
	story := seedStory(t, env, owner, "Campfire", model.StoryDraft, true)

	upload := func(token string, fields map[string]string) (int, uploads.Item) {
		req := multipartRequest(t, "/media", fields,
			part{field: "file", name: "voice.mp3", contentType: "audio/mpeg", data: []byte("ID3 voice")},
		)
		rec := env.send(req, token)
		var item uploads.Item
		decode(t, rec, &item)
		return rec.Code, item
	}

	code, _ := upload(otherToken, map[string]string{"story_id": story.ID.String()})
	assert.Equal(t, http.StatusForbidden, code, "cannot attach to another storyteller's story")

	code, _ = upload(token, map[string]string{"story_id": "00000000-0000-0000-0000-000000000001"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, item := upload(token, map[string]string{"story_id": story.ID.String()})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, uploads.StatusSuccess, item.Status)

	code, item = upload(token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, uploads.StatusSkipped, item.Status)

	rec := env.do(t, http.MethodGet, "/media?story_id="+story.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int64 `json:"total"`
	}
	decode(t, rec, &list)
	assert.Equal(t, int64(1), list.Total)
}

func TestUploadRequiresPermission(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.profile(t, model.RoleStoryteller, model.Permissions{})

	req := multipartRequest(t, "/media/uploads", nil,
		part{field: "files", name: "dawn.png", contentType: "image/png", data: pngBytes},
	)
	rec := env.send(req, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadRejectsDisallowedKind(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.StoryhubConfig) {
		cfg.AllowedUploadTypes = []string{"image"}
	})
	_, token := env.profile(t, model.RoleAdmin, model.Permissions{})

	req := multipartRequest(t, "/media", nil,
		part{field: "file", name: "clip.mp4", contentType: "video/mp4", data: []byte("video")},
	)
	rec := env.send(req, token)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var item uploads.Item
	decode(t, rec, &item)
	assert.Equal(t, uploads.StatusError, item.Status)
	assert.Contains(t, item.Error, "not allowed")
}
