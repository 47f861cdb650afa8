package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/storage"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrTooLarge        = errors.New("file too large")
)

// Processor uploads the files of a batch one at a time.
type Processor struct {
	Blobs    storage.BlobStore
	Media    store.MediaStore
	MaxBytes int64
	Allowed  func(kind string) bool

	// OnUpdate, when set, is called after every status change.
	OnUpdate func(index int, item Item)
}

func NewProcessor(cfg *config.StoryhubConfig, blobs storage.BlobStore, media store.MediaStore) *Processor {
	return &Processor{
		Blobs:    blobs,
		Media:    media,
		MaxBytes: cfg.MaxUploadBytes,
		Allowed:  cfg.IsUploadKindAllowed,
	}
}

// Process walks the batch in order and returns its final summary. It
// returns ctx.Err() when the walk was cut short.
func (p *Processor) Process(ctx context.Context, b *Batch) (Summary, error) {
	for i := range b.files {
		if err := ctx.Err(); err != nil {
			return b.Summary(), err
		}

		p.set(b, i, func(it *Item) { it.Status = StatusUploading })

		media, dup, err := p.upload(ctx, b, b.files[i])
		switch {
		case err != nil && ctx.Err() != nil:
			p.set(b, i, func(it *Item) { it.Status = StatusPending })
			return b.Summary(), ctx.Err()
		case err != nil:
			p.set(b, i, func(it *Item) {
				it.Status = StatusError
				it.Error = err.Error()
			})
		case dup != nil:
			p.set(b, i, func(it *Item) {
				it.Status = StatusSkipped
				it.DuplicateOf = &dup.ID
			})
		default:
			p.set(b, i, func(it *Item) {
				it.Status = StatusSuccess
				it.MediaID = &media.ID
			})
		}
	}
	return b.Summary(), nil
}

func (p *Processor) set(b *Batch, i int, fn func(*Item)) {
	it := b.update(i, fn)
	logging.Log.WithFields(logrus.Fields{
		"file":   it.Name,
		"status": it.Status.String(),
	}).Debug("upload status changed")
	if p.OnUpdate != nil {
		p.OnUpdate(i, it)
	}
}

// upload stores one file. It returns the existing media row instead of a
// new one when identical content was uploaded before.
func (p *Processor) upload(ctx context.Context, b *Batch, f File) (*model.MediaFile, *model.MediaFile, error) {
	contentType := model.ContentTypeFor(f.Name, f.ContentType)
	kind := model.KindForContentType(contentType)
	if kind == "" {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if p.Allowed != nil && !p.Allowed(string(kind)) {
		return nil, nil, fmt.Errorf("%w: %s", ErrTypeNotAllowed, kind)
	}
	if p.MaxBytes > 0 && f.Size > p.MaxBytes {
		return nil, nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, f.Size, p.MaxBytes)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if p.MaxBytes > 0 {
		r = io.LimitReader(rc, p.MaxBytes+1)
	}

	key := storage.NewKey(kind, f.Name)
	obj, err := p.Blobs.Put(ctx, key, r)
	if err != nil {
		return nil, nil, fmt.Errorf("store %s: %w", f.Name, err)
	}
	discard := func() { _ = p.Blobs.Delete(context.WithoutCancel(ctx), key) }

	if p.MaxBytes > 0 && obj.Size > p.MaxBytes {
		discard()
		return nil, nil, fmt.Errorf("%w: exceeds limit of %d bytes", ErrTooLarge, p.MaxBytes)
	}

	existing, err := p.Media.FindMediaBySHA256(ctx, obj.SHA256)
	switch {
	case err == nil:
		discard()
		return nil, existing, nil
	case !errors.Is(err, store.ErrNotFound):
		discard()
		return nil, nil, err
	}

	media := &model.MediaFile{
		StoryID:     b.StoryID,
		ProfileID:   b.ProfileID,
		FileName:    f.Name,
		StorageKey:  obj.Key,
		ContentType: contentType,
		Kind:        kind,
		SizeBytes:   obj.Size,
		SHA256:      obj.SHA256,
		Title:       strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name)),
	}
	if err := p.Media.CreateMedia(ctx, media); err != nil {
		discard()
		return nil, nil, err
	}
	return media, nil, nil
}
