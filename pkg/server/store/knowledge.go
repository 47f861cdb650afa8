package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// KnowledgeFilter narrows a knowledge search. Category matches case-insensitively.
type KnowledgeFilter struct {
	Category      string
	PublishedOnly bool
}

// KnowledgeStore abstracts knowledge base storage operations
type KnowledgeStore interface {
	ListKnowledge(ctx context.Context, category string, page Page) ([]model.KnowledgeEntry, error)
	GetKnowledge(ctx context.Context, id uuid.UUID) (*model.KnowledgeEntry, error)
	GetKnowledgeBySlug(ctx context.Context, slug string) (*model.KnowledgeEntry, error)

	// SearchKnowledge returns every entry passing filter whose title, tags
	// or content contain the query, case-insensitively. Results are unranked.
	SearchKnowledge(ctx context.Context, query string, filter KnowledgeFilter) ([]model.KnowledgeEntry, error)
	CreateKnowledge(ctx context.Context, entry *model.KnowledgeEntry) error
	ReplaceKnowledge(ctx context.Context, entry *model.KnowledgeEntry) error

	// UpsertKnowledge inserts the entry or, when the slug exists, updates it.
	// It reports whether a new row was created.
	UpsertKnowledge(ctx context.Context, entry *model.KnowledgeEntry) (bool, error)
	DeleteKnowledge(ctx context.Context, id uuid.UUID) error
}
