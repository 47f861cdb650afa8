package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

const entityStory = "story"

type createStoryRequest struct {
	ExternalID    *string         `json:"external_id" validate:"omitempty,max=200"`
	StorytellerID *uuid.UUID      `json:"storyteller_id"`
	Title         string          `json:"title" validate:"required,max=300"`
	Summary       string          `json:"summary"`
	Content       string          `json:"content"`
	Category      string          `json:"category" validate:"max=100"`
	Tags          []string        `json:"tags" validate:"dive,max=50"`
	IsFeatured    bool            `json:"is_featured"`
	ConsentGiven  bool            `json:"consent_given"`
	Metadata      json.RawMessage `json:"metadata"`
}

type updateStoryRequest struct {
	Title        *string         `json:"title" validate:"omitempty,min=1,max=300"`
	Summary      *string         `json:"summary"`
	Content      *string         `json:"content"`
	Category     *string         `json:"category" validate:"omitempty,max=100"`
	Tags         *[]string       `json:"tags"`
	IsFeatured   *bool           `json:"is_featured"`
	ConsentGiven *bool           `json:"consent_given"`
	Metadata     json.RawMessage `json:"metadata"`
}

func (req updateStoryRequest) patch() (store.StoryPatch, bool) {
	p := store.StoryPatch{
		Title:        req.Title,
		Summary:      req.Summary,
		Content:      req.Content,
		Category:     req.Category,
		Tags:         req.Tags,
		IsFeatured:   req.IsFeatured,
		ConsentGiven: req.ConsentGiven,
	}
	if len(req.Metadata) > 0 {
		p.Metadata = datatypes.JSON(req.Metadata)
	}
	empty := p.Title == nil && p.Summary == nil && p.Content == nil && p.Category == nil &&
		p.Tags == nil && p.IsFeatured == nil && p.ConsentGiven == nil && p.Metadata == nil
	return p, !empty
}

type storyStatusRequest struct {
	Status model.StoryStatus `json:"status" validate:"required,oneof=draft review published archived"`
}

// RegisterStoriesEndpoints registers the story routes. Editors manage every
// story; storytellers manage their own.
func RegisterStoriesEndpoints(s *server.Server) {
	storiesRouter := s.Router.PathPrefix("/stories").Subrouter()
	storiesRouter.Use(s.JWTMiddleware.Middleware)

	storiesRouter.HandleFunc("", handleListStories(s)).Methods("GET")
	storiesRouter.HandleFunc("", handleCreateStory(s)).Methods("POST")
	storiesRouter.HandleFunc("/{id}", handleGetStory(s.Stories)).Methods("GET")
	storiesRouter.HandleFunc("/{id}", handleUpdateStory(s)).Methods("PATCH")
	storiesRouter.HandleFunc("/{id}", handleDeleteStory(s)).Methods("DELETE")
	storiesRouter.HandleFunc("/{id}/status", handleSetStoryStatus(s)).Methods("PUT")
}

func handleListStories(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		storyteller, ok := parseOptionalID(w, r, "storyteller_id")
		if !ok {
			return
		}
		filter := store.StoryFilter{
			Status:        model.StoryStatus(q.Get("status")),
			Category:      q.Get("category"),
			StorytellerID: storyteller,
			Search:        strings.TrimSpace(q.Get("q")),
			FeaturedOnly:  boolQuery(r, "featured"),
			Page:          parsePage(r, s.Config),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}
		if id := caller(r); !id.CanEdit() {
			own := id.ProfileID
			filter.StorytellerID = &own
		}

		stories, err := s.Stories.ListStories(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		total, err := s.Stories.CountStories(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  stories,
			Total:  &total,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}

func handleCreateStory(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createStoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		storyteller := id.ProfileID
		if req.StorytellerID != nil {
			storyteller = *req.StorytellerID
		}
		if !id.CanEdit() && !id.Owns(storyteller) {
			respondWithError(w, http.StatusForbidden, "storytellers may only create their own stories")
			return
		}
		if _, err := s.Profiles.GetProfile(r.Context(), storyteller); err != nil {
			writeStoreError(w, err)
			return
		}

		story := &model.Story{
			ExternalID:    req.ExternalID,
			StorytellerID: storyteller,
			Title:         strings.TrimSpace(req.Title),
			Summary:       req.Summary,
			Content:       req.Content,
			Category:      strings.TrimSpace(req.Category),
			Tags:          datatypes.JSONSlice[string](req.Tags),
			IsFeatured:    req.IsFeatured && id.CanEdit(),
			ConsentGiven:  req.ConsentGiven,
			Status:        model.StoryDraft,
		}
		if len(req.Metadata) > 0 {
			story.Metadata = datatypes.JSON(req.Metadata)
		}

		err := s.Stories.CreateStory(r.Context(), story)
		recordMutation(s.Audit, r, audit.ActionCreate, entityStory, story.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, story)
	}
}

// loadStory fetches a story the caller may manage. It writes the error
// response itself and returns nil when access is refused.
func loadStory(w http.ResponseWriter, r *http.Request, stories store.StoriesStore) *model.Story {
	id, ok := parseID(w, r)
	if !ok {
		return nil
	}
	story, err := stories.GetStory(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return nil
	}
	if !canManage(caller(r), story.StorytellerID) {
		respondWithError(w, http.StatusForbidden, "forbidden")
		return nil
	}
	return story
}

func canManage(id *identity.Identity, owner uuid.UUID) bool {
	return id != nil && (id.CanEdit() || id.Owns(owner))
}

func handleGetStory(stories store.StoriesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		story := loadStory(w, r, stories)
		if story == nil {
			return
		}
		respondWithJSON(w, http.StatusOK, story)
	}
}

func handleUpdateStory(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		story := loadStory(w, r, s.Stories)
		if story == nil {
			return
		}
		var req updateStoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		patch, ok := req.patch()
		if !ok {
			respondWithError(w, http.StatusUnprocessableEntity, "no fields to update")
			return
		}
		if patch.IsFeatured != nil && !caller(r).CanEdit() {
			respondWithError(w, http.StatusForbidden, "only editors may feature stories")
			return
		}

		updated, err := s.Stories.UpdateStory(r.Context(), story.ID, patch)
		recordMutation(s.Audit, r, audit.ActionUpdate, entityStory, story.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteStory(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		story := loadStory(w, r, s.Stories)
		if story == nil {
			return
		}

		err := s.Stories.DeleteStory(r.Context(), story.ID)
		recordMutation(s.Audit, r, audit.ActionDelete, entityStory, story.ID.String(), err, map[string]interface{}{
			"title": story.Title,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSetStoryStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		story := loadStory(w, r, s.Stories)
		if story == nil {
			return
		}
		var req storyStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		// Moving a story into or out of published needs the publish permission.
		if !caller(r).Can(identity.PermissionPublish) {
			switch {
			case req.Status == model.StoryPublished:
				respondWithError(w, http.StatusForbidden, "publishing requires the publish permission")
				return
			case story.Status == model.StoryPublished:
				respondWithError(w, http.StatusForbidden, "unpublishing requires the publish permission")
				return
			}
		}

		updated, err := s.Stories.SetStoryStatus(r.Context(), story.ID, req.Status)
		recordMutation(s.Audit, r, audit.ActionStatus, entityStory, story.ID.String(), err, map[string]interface{}{
			"from": story.Status,
			"to":   req.Status,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}
