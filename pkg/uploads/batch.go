package uploads

import (
	"io"
	"sync"

	"github.com/google/uuid"
)

// File is one submitted file awaiting upload.
type File struct {
	Name        string
	ContentType string
	// Size is the declared size; -1 when unknown.
	Size int64
	Open func() (io.ReadCloser, error)
}

// Item is the per-file result row shown to the uploader.
type Item struct {
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	MediaID     *uuid.UUID `json:"media_id,omitempty"`
	DuplicateOf *uuid.UUID `json:"duplicate_of,omitempty"`
}

// Summary counts items by status. An item that is uploading is counted as
// pending, so Total always equals Success+Error+Skipped+Pending.
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Error   int `json:"error"`
	Skipped int `json:"skipped"`
	Pending int `json:"pending"`
}

// Batch is safe for concurrent readers while a Processor updates it.
type Batch struct {
	ProfileID *uuid.UUID
	StoryID   *uuid.UUID

	mu    sync.RWMutex
	files []File
	items []Item
}

func NewBatch(profileID, storyID *uuid.UUID, files []File) *Batch {
	items := make([]Item, len(files))
	for i, f := range files {
		items[i] = Item{Name: f.Name, Status: StatusPending}
	}
	return &Batch{ProfileID: profileID, StoryID: storyID, files: files, items: items}
}

func (b *Batch) Len() int {
	return len(b.files)
}

// Items returns a snapshot of the per-file results.
func (b *Batch) Items() []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Batch) Summary() Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := Summary{Total: len(b.items)}
	for _, it := range b.items {
		switch it.Status {
		case StatusSuccess:
			s.Success++
		case StatusError:
			s.Error++
		case StatusSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
	}
	return s
}

// Done reports whether every item reached a final state.
func (b *Batch) Done() bool {
	return b.Summary().Pending == 0
}

func (b *Batch) update(i int, fn func(*Item)) Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.items[i])
	return b.items[i]
}
