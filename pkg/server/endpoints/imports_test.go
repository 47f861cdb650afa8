package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/fetch"
	"github.com/storyhub-org/storyhub/pkg/importer"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

func TestImportEndpoint(t *testing.T) {
	var served atomic.Int32
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"external_id": "p-1", "display_name": "Aunty May"},
			{"external_id": "p-2", "display_name": "Tom"}
		]`))
	}))
	defer remote.Close()

	env := newTestEnv(t)
	_, admin := env.profile(t, model.RoleAdmin, model.Permissions{})
	_, editor := env.profile(t, model.RoleEditor, model.Permissions{})

	body := map[string]string{"source": remote.URL + "/profiles.json", "kind": "profiles"}

	rec := env.do(t, http.MethodPost, "/imports", editor, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/imports", admin, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report importer.Report
	decode(t, rec, &report)
	assert.Equal(t, 2, report.Profiles.Created)

	rec = env.do(t, http.MethodPost, "/imports", admin, body)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &report)
	assert.Equal(t, 2, report.Profiles.Skipped)
	assert.Equal(t, int32(1), served.Load(), "second import is answered from cache")

	rec = env.do(t, http.MethodGet, "/stats/fetch", editor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats fetch.Stats
	decode(t, rec, &stats)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	logged, err := env.srv.Activity.ListActivity(context.Background(), store.ActivityFilter{Action: "profiles.import"})
	require.NoError(t, err)
	assert.Len(t, logged, 2)

	t.Run("only http sources", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/imports", admin, map[string]string{"source": "ftp://archive.example.org/profiles.json", "kind": "profiles"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "source must be an http(s) URL", errorMessage(t, rec))
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/imports", admin, map[string]string{"source": remote.URL, "kind": "media"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
