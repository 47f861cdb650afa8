package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
)

func TestNewKey(t *testing.T) {
	key := NewKey(model.MediaImage, "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "image/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, NewKey(model.MediaImage, "Photo.JPG"))

	assert.False(t, strings.Contains(NewKey(model.MediaDocument, "notes"), "."))
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/etc/passwd", "../x", "image/../../x", "image//x", `image\x`, "./x"} {
		_, err := cleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
	k, err := cleanKey("audio/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "audio/a.mp3", k)
}

func TestFS_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	body := "kia ora"
	obj, err := fs.Put(ctx, "document/a.txt", strings.NewReader(body))
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(body))
	assert.Equal(t, int64(len(body)), obj.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), obj.SHA256)

	ok, err := fs.Exists(ctx, "document/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := fs.Open(ctx, "document/a.txt")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, body, string(got))

	require.NoError(t, fs.Delete(ctx, "document/a.txt"))
	require.NoError(t, fs.Delete(ctx, "document/a.txt"))

	_, err = fs.Open(ctx, "document/a.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err = fs.Exists(ctx, "document/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFS_RejectsTraversal(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Put(context.Background(), "../escape", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFS_PutCancelled(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fs.Put(ctx, "image/a.png", strings.NewReader("data"))
	require.Error(t, err)

	ok, err := fs.Exists(context.Background(), "image/a.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFS_WebDAVReadOnly(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)
	_, err = fs.Put(context.Background(), "image/a.png", strings.NewReader("png"))
	require.NoError(t, err)

	h := fs.WebDAV("/dav")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dav/image/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	for _, method := range []string{http.MethodPut, http.MethodDelete, "MKCOL", "MOVE"} {
		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(method, "/dav/image/a.png", strings.NewReader("x")))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}
