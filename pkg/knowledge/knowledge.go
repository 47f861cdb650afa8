// Package knowledge holds the built-in knowledge base and its search ranking.
package knowledge

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/slug"
)

//go:embed data/knowledge.yaml
var builtin []byte

// Base is the seed document shape.
type Base struct {
	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"entries"`
}

type Entry struct {
	Slug      string   `yaml:"slug"`
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags"`
	Source    string   `yaml:"source"`
	Content   string   `yaml:"content"`
	Published bool     `yaml:"published"`
}

// Default parses the built-in knowledge base.
func Default() (*Base, error) {
	return Parse(builtin)
}

func Parse(data []byte) (*Base, error) {
	var b Base
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	seen := make(map[string]bool)
	for ci, c := range b.Categories {
		for ei, e := range c.Entries {
			if e.Title == "" {
				return nil, fmt.Errorf("knowledge base: entry %d in %q has no title", ei, c.Name)
			}
			if e.Slug == "" {
				b.Categories[ci].Entries[ei].Slug = slug.Make(e.Title)
			}
			s := b.Categories[ci].Entries[ei].Slug
			if seen[s] {
				return nil, fmt.Errorf("knowledge base: duplicate slug %q", s)
			}
			seen[s] = true
		}
	}
	return &b, nil
}

// Entries flattens the base into model rows.
func (b *Base) Entries() []model.KnowledgeEntry {
	var out []model.KnowledgeEntry
	for _, c := range b.Categories {
		for _, e := range c.Entries {
			tags := e.Tags
			if tags == nil {
				tags = []string{}
			}
			out = append(out, model.KnowledgeEntry{
				Slug:        e.Slug,
				Title:       e.Title,
				Category:    c.Name,
				Content:     strings.TrimSpace(e.Content),
				Tags:        datatypes.JSONSlice[string](tags),
				Source:      e.Source,
				IsPublished: e.Published,
			})
		}
	}
	return out
}

// SeedResult counts rows touched by Seed.
type SeedResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Seed upserts every entry by slug. Running it twice changes nothing.
func Seed(ctx context.Context, s store.KnowledgeStore, b *Base) (SeedResult, error) {
	var res SeedResult
	for _, e := range b.Entries() {
		entry := e
		created, err := s.UpsertKnowledge(ctx, &entry)
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", entry.Slug, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

// Match weights.
const (
	titleWeight   = 3
	tagWeight     = 2
	contentWeight = 1
)

// Hit is a ranked search result.
type Hit struct {
	model.KnowledgeEntry
	Score int `json:"score"`
}

// Score rates how well an entry matches query: a title match outweighs a
// tag match, which outweighs a content match.
func Score(e model.KnowledgeEntry, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	score := 0
	if strings.Contains(strings.ToLower(e.Title), q) {
		score += titleWeight
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			score += tagWeight
			break
		}
	}
	if strings.Contains(strings.ToLower(e.Content), q) {
		score += contentWeight
	}
	return score
}

// Rank scores entries, drops non-matches and orders the rest by score, then
// title. category, when set, restricts the results.
func Rank(entries []model.KnowledgeEntry, query, category string, limit int) []Hit {
	hits := make([]Hit, 0, len(entries))
	for _, e := range entries {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if s := Score(e, query); s > 0 {
			hits = append(hits, Hit{KnowledgeEntry: e, Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Title < hits[j].Title
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Search runs a ranked knowledge search against the store. Every match is
// ranked before limit applies.
func Search(ctx context.Context, s store.KnowledgeStore, query string, filter store.KnowledgeFilter, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return []Hit{}, nil
	}
	candidates, err := s.SearchKnowledge(ctx, strings.TrimSpace(query), filter)
	if err != nil {
		return nil, err
	}
	return Rank(candidates, query, filter.Category, limit), nil
}
