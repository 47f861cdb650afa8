package uploads

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/server/store/mocks"
	"github.com/storyhub-org/storyhub/pkg/storage"
)

func file(name, contentType, body string) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func sum(body string) string {
	s := sha256.Sum256([]byte(body))
	return hex.EncodeToString(s[:])
}

func countBlobs(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return err
	})
	require.NoError(t, err)
	return n
}

func newProcessor(t *testing.T, media store.MediaStore) (*Processor, string) {
	t.Helper()
	root := t.TempDir()
	blobs, err := storage.NewFS(root)
	require.NoError(t, err)
	return &Processor{
		Blobs:    blobs,
		Media:    media,
		MaxBytes: 16,
		Allowed: func(kind string) bool {
			return kind != string(model.MediaVideo)
		},
	}, root
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "uploading", StatusUploading.String())
	s, err := StatusString("SKIPPED")
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, s)
	_, err = StatusString("lost")
	assert.Error(t, err)

	b, err := StatusError.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"error"`, string(b))
	assert.True(t, StatusSkipped.Done())
	assert.False(t, StatusUploading.Done())
}

func TestBatch_SummaryCountsUploadingAsPending(t *testing.T) {
	b := NewBatch(nil, nil, []File{file("a.png", "image/png", "a"), file("b.png", "image/png", "b")})
	b.update(0, func(it *Item) { it.Status = StatusUploading })

	assert.Equal(t, Summary{Total: 2, Pending: 2}, b.Summary())
	assert.False(t, b.Done())
}

func TestProcessor_Process(t *testing.T) {
	existing := &model.MediaFile{ID: uuid.New(), FileName: "old.jpg"}
	owner := uuid.New()

	media := new(mocks.MediaStore)
	media.On("FindMediaBySHA256", mock.Anything, sum("seen before")).Return(existing, nil)
	media.On("FindMediaBySHA256", mock.Anything, mock.Anything).Return(nil, store.ErrNotFound)
	var created *model.MediaFile
	media.On("CreateMedia", mock.Anything, mock.MatchedBy(func(m *model.MediaFile) bool {
		return m.FileName == "photo.png"
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.MediaFile)
	}).Return(nil)

	p, root := newProcessor(t, media)

	b := NewBatch(&owner, nil, []File{
		file("photo.png", "image/png", "png bytes"),
		file("archive.zip", "application/zip", "zip"),
		file("dup.jpg", "image/jpeg", "seen before"),
		file("clip.mp4", "video/mp4", "mp4"),
		file("huge.png", "image/png", strings.Repeat("x", 17)),
	})

	var seen []Summary
	p.OnUpdate = func(_ int, _ Item) { seen = append(seen, b.Summary()) }

	got, err := p.Process(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 5, Success: 1, Error: 3, Skipped: 1}, got)
	for _, s := range seen {
		assert.Equal(t, s.Total, s.Success+s.Error+s.Skipped+s.Pending)
	}
	assert.True(t, b.Done())

	items := b.Items()
	assert.Equal(t, StatusSuccess, items[0].Status)
	assert.NotNil(t, items[0].MediaID)
	assert.Contains(t, items[1].Error, "unsupported file type")
	assert.Equal(t, StatusSkipped, items[2].Status)
	assert.Equal(t, existing.ID, *items[2].DuplicateOf)
	assert.Contains(t, items[3].Error, "not allowed")
	assert.Contains(t, items[4].Error, "too large")

	assert.Equal(t, 1, countBlobs(t, root))
	require.NotNil(t, created)
	assert.Equal(t, &owner, created.ProfileID)
	assert.Equal(t, model.MediaImage, created.Kind)
	assert.Equal(t, "photo", created.Title)
	media.AssertExpectations(t)
}

func TestProcessor_UndeclaredSizeStillLimited(t *testing.T) {
	media := new(mocks.MediaStore)
	p, root := newProcessor(t, media)

	f := file("big.png", "image/png", strings.Repeat("y", 40))
	f.Size = -1
	b := NewBatch(nil, nil, []File{f})

	got, err := p.Process(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Error)
	assert.Equal(t, 0, countBlobs(t, root))
	media.AssertNotCalled(t, "CreateMedia", mock.Anything, mock.Anything)
}

func TestProcessor_CreateFailureRemovesBlob(t *testing.T) {
	media := new(mocks.MediaStore)
	media.On("FindMediaBySHA256", mock.Anything, mock.Anything).Return(nil, store.ErrNotFound)
	media.On("CreateMedia", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	p, root := newProcessor(t, media)
	b := NewBatch(nil, nil, []File{file("a.png", "image/png", "a"), file("b.png", "image/png", "b")})

	got, err := p.Process(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 2, Error: 2}, got)
	assert.Equal(t, "connection reset", b.Items()[0].Error)
	assert.Equal(t, 0, countBlobs(t, root))
}

func TestProcessor_OpenFailure(t *testing.T) {
	media := new(mocks.MediaStore)
	p, _ := newProcessor(t, media)

	f := file("a.png", "image/png", "a")
	f.Open = func() (io.ReadCloser, error) { return nil, errors.New("gone") }

	got, err := p.Process(context.Background(), NewBatch(nil, nil, []File{f}))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Error)
}

func TestProcessor_CancelLeavesRestPending(t *testing.T) {
	media := new(mocks.MediaStore)
	media.On("FindMediaBySHA256", mock.Anything, mock.Anything).Return(nil, store.ErrNotFound)
	media.On("CreateMedia", mock.Anything, mock.Anything).Return(nil)

	p, _ := newProcessor(t, media)
	b := NewBatch(nil, nil, []File{
		file("a.png", "image/png", "a"),
		file("b.png", "image/png", "b"),
		file("c.png", "image/png", "c"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.OnUpdate = func(_ int, it Item) {
		if it.Status == StatusSuccess {
			cancel()
		}
	}

	got, err := p.Process(ctx, b)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Summary{Total: 3, Success: 1, Pending: 2}, got)
	assert.Equal(t, StatusPending, b.Items()[2].Status)
}
