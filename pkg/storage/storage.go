// Package storage keeps uploaded media bytes outside the database.
//
// The database only records a StorageKey for every media file; the bytes
// live in a BlobStore. Keys are slash separated and relative, for example
// "image/0b8e4f3c-....jpg".
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

var (
	// ErrNotFound is returned when no blob exists under a key.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey is returned for keys that would escape the storage root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Object describes a stored blob.
type Object struct {
	Key    string
	Size   int64
	SHA256 string
}

// BlobStore abstracts blob persistence
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NewKey returns a fresh key for a file of the given kind, keeping the
// original extension.
func NewKey(kind model.MediaKind, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return path.Join(string(kind), uuid.NewString()+ext)
}

// cleanKey rejects absolute keys and any key containing "..".
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
