package store

import "errors"

var (
	// ErrNotFound is returned when the requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key (external id, slug, email) is taken
	ErrDuplicate = errors.New("already exists")

	// ErrInvalid is returned when a write is rejected by a domain rule
	ErrInvalid = errors.New("invalid")

	// ErrInUse is returned when a row cannot be deleted because others reference it
	ErrInUse = errors.New("still referenced")
)
