package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/knowledge"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	"github.com/storyhub-org/storyhub/pkg/slug"
)

const (
	entityKnowledge = "knowledge"

	defaultSearchLimit = 20
)

type knowledgeRequest struct {
	Slug     string   `json:"slug" validate:"omitempty,max=100"`
	Title    string   `json:"title" validate:"required,max=300"`
	Category string   `json:"category" validate:"required,max=100"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags" validate:"dive,max=50"`
	Source   string   `json:"source" validate:"max=300"`

	IsPublished bool `json:"is_published"`
}

func (req knowledgeRequest) apply(k *model.KnowledgeEntry) {
	k.Title = strings.TrimSpace(req.Title)
	k.Slug = slug.Make(req.Slug)
	if strings.TrimSpace(req.Slug) == "" {
		k.Slug = slug.Make(k.Title)
	}
	k.Category = strings.TrimSpace(req.Category)
	k.Content = req.Content
	k.Tags = datatypes.JSONSlice[string](req.Tags)
	if k.Tags == nil {
		k.Tags = datatypes.JSONSlice[string]{}
	}
	k.Source = req.Source
	k.IsPublished = req.IsPublished
}

// SearchResponse carries ranked knowledge hits
type SearchResponse struct {
	Query string          `json:"query"`
	Hits  []knowledge.Hit `json:"hits"`
}

// RegisterKnowledgeEndpoints registers the knowledge base routes. Editors write.
func RegisterKnowledgeEndpoints(s *server.Server) {
	knowledgeRouter := s.Router.PathPrefix("/knowledge").Subrouter()
	knowledgeRouter.Use(s.JWTMiddleware.Middleware)

	knowledgeRouter.HandleFunc("", handleListKnowledge(s)).Methods("GET")
	knowledgeRouter.HandleFunc("/search", handleSearchKnowledge(s.Knowledge, s.Config, false)).Methods("GET")
	knowledgeRouter.Handle("", middleware.RequireEditor(handleCreateKnowledge(s))).Methods("POST")
	knowledgeRouter.HandleFunc("/{id}", handleGetKnowledge(s.Knowledge)).Methods("GET")
	knowledgeRouter.Handle("/{id}", middleware.RequireEditor(handleReplaceKnowledge(s))).Methods("PUT")
	knowledgeRouter.Handle("/{id}", middleware.RequireEditor(handleDeleteKnowledge(s))).Methods("DELETE")
}

func handleListKnowledge(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r, s.Config)
		entries, err := s.Knowledge.ListKnowledge(r.Context(), r.URL.Query().Get("category"), page)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{Items: entries, Limit: page.Limit, Offset: page.Offset})
	}
}

// handleSearchKnowledge ranks entries matching q. publishedOnly hides
// internal entries from unauthenticated callers.
func handleSearchKnowledge(ks store.KnowledgeStore, cfg *config.StoryhubConfig, publishedOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := strings.TrimSpace(q.Get("q"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		limit = cfg.ClampLimit(limit)

		filter := store.KnowledgeFilter{Category: q.Get("category"), PublishedOnly: publishedOnly}
		hits, err := knowledge.Search(r.Context(), ks, query, filter, limit)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, SearchResponse{Query: query, Hits: hits})
	}
}

func handleCreateKnowledge(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req knowledgeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		k := &model.KnowledgeEntry{}
		req.apply(k)

		err := s.Knowledge.CreateKnowledge(r.Context(), k)
		recordMutation(s.Audit, r, audit.ActionCreate, entityKnowledge, k.ID.String(), err, map[string]interface{}{
			"slug": k.Slug,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, k)
	}
}

func handleGetKnowledge(ks store.KnowledgeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		k, err := ks.GetKnowledge(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, k)
	}
}

func handleReplaceKnowledge(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req knowledgeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		k := &model.KnowledgeEntry{ID: id}
		req.apply(k)

		err := s.Knowledge.ReplaceKnowledge(r.Context(), k)
		recordMutation(s.Audit, r, audit.ActionUpdate, entityKnowledge, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		updated, err := s.Knowledge.GetKnowledge(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteKnowledge(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		err := s.Knowledge.DeleteKnowledge(r.Context(), id)
		recordMutation(s.Audit, r, audit.ActionDelete, entityKnowledge, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
