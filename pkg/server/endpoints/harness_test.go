package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/store/storetest"
	"github.com/storyhub-org/storyhub/pkg/storage"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	srv *server.Server
}

func newTestEnv(t *testing.T, configure ...func(*config.StoryhubConfig)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.StorageRoot = t.TempDir()
	cfg.MaxUploadBytes = 1 << 20
	for _, fn := range configure {
		fn(cfg)
	}

	db := storetest.NewSQLite(t)
	blobs, err := storage.NewFS(cfg.StorageRoot)
	require.NoError(t, err)
	tokens, err := authn.NewTokenIssuer(testSigningKey, time.Hour)
	require.NoError(t, err)

	srv := server.NewServer(cfg, server.NewGormStores(db), blobs, tokens, "127.0.0.1", "0")
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	srv.Audit.Log = quiet
	RegisterAll(srv)

	return &testEnv{srv: srv}
}

// profile creates an active profile and returns it with a bearer token.
func (e *testEnv) profile(t *testing.T, role model.Role, perms model.Permissions) (*model.Profile, string) {
	t.Helper()
	email := uuid.NewString() + "@example.org"
	p := &model.Profile{
		DisplayName: "Test " + string(role),
		Email:       &email,
		Role:        role,
		IsActive:    true,
	}
	p.ApplyPermissions(perms)
	require.NoError(t, e.srv.Profiles.CreateProfile(context.Background(), p))

	token, _, err := e.srv.Tokens.Issue(p)
	require.NoError(t, err)
	return p, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token)
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func (e *testEnv) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

type part struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}
