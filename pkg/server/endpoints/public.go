package endpoints

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/render"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// PublicStory is the outward view of a published story.
type PublicStory struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Summary       string        `json:"summary"`
	Category      string        `json:"category"`
	Tags          []string      `json:"tags"`
	IsFeatured    bool          `json:"is_featured"`
	StorytellerID uuid.UUID     `json:"storyteller_id"`
	Storyteller   string        `json:"storyteller,omitempty"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	ContentHTML   template.HTML `json:"content_html,omitempty"`
}

func publicStory(s *model.Story) PublicStory {
	tags := []string(s.Tags)
	if tags == nil {
		tags = []string{}
	}
	return PublicStory{
		ID:            s.ID,
		Title:         s.Title,
		Slug:          s.Slug,
		Summary:       s.Summary,
		Category:      s.Category,
		Tags:          tags,
		IsFeatured:    s.IsFeatured,
		StorytellerID: s.StorytellerID,
		PublishedAt:   s.PublishedAt,
	}
}

// PublicService is the outward view of an organisation service.
type PublicService struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// RegisterPublicEndpoints registers the unauthenticated read API
func RegisterPublicEndpoints(s *server.Server) {
	publicRouter := s.Router.PathPrefix("/public").Subrouter()

	publicRouter.HandleFunc("/stories", handlePublicStories(s)).Methods("GET")
	publicRouter.HandleFunc("/stories/{slug}", handlePublicStory(s)).Methods("GET")
	publicRouter.HandleFunc("/services", handlePublicServices(s.Services)).Methods("GET")
	publicRouter.HandleFunc("/knowledge/search", handleSearchKnowledge(s.Knowledge, s.Config, true)).Methods("GET")
}

func handlePublicStories(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.StoryFilter{
			Category:     q.Get("category"),
			Search:       strings.TrimSpace(q.Get("q")),
			FeaturedOnly: boolQuery(r, "featured"),
			PublicOnly:   true,
			Page:         parsePage(r, s.Config),
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

		items := make([]PublicStory, 0, len(stories))
		for i := range stories {
			items = append(items, publicStory(&stories[i]))
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  items,
			Total:  &total,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}

// wantsHTML reports whether the client asked for the rendered page.
func wantsHTML(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return f == "html"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func handlePublicStory(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		story, err := s.Stories.GetStoryBySlug(r.Context(), mux.Vars(r)["slug"])
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if !story.IsPublic() {
			respondWithError(w, http.StatusNotFound, store.ErrNotFound.Error())
			return
		}

		storyteller := ""
		if p, err := s.Profiles.GetProfile(r.Context(), story.StorytellerID); err == nil {
			storyteller = p.DisplayName
		} else if !errors.Is(err, store.ErrNotFound) {
			writeStoreError(w, err)
			return
		}

		page, err := render.NewStoryPage(story, storyteller, s.Config.PublicBaseURL)
		if err != nil {
			logging.Log.WithError(err).WithField("slug", story.Slug).Error("failed to render story")
			respondWithError(w, http.StatusInternalServerError, "failed to render story")
			return
		}

		if wantsHTML(r) {
			var buf bytes.Buffer
			if err := page.Write(&buf); err != nil {
				logging.Log.WithError(err).WithField("slug", story.Slug).Error("failed to render story page")
				respondWithError(w, http.StatusInternalServerError, "failed to render story")
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
			_, _ = w.Write(buf.Bytes())
			return
		}

		out := publicStory(story)
		out.Storyteller = storyteller
		out.ContentHTML = page.Body
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handlePublicServices(services store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := services.ListServices(r.Context(), true)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		items := make([]PublicService, 0, len(list))
		for _, o := range list {
			items = append(items, PublicService{
				Name:         o.Name,
				Category:     o.Category,
				Description:  o.Description,
				ContactEmail: o.ContactEmail,
			})
		}
		respondWithJSON(w, http.StatusOK, listResponse{Items: items, Limit: len(items)})
	}
}
