package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

const entityInterview = "interview"

type interviewRequest struct {
	StorytellerID uuid.UUID             `json:"storyteller_id" validate:"required"`
	InterviewerID *uuid.UUID            `json:"interviewer_id"`
	StoryID       *uuid.UUID            `json:"story_id"`
	Title         string                `json:"title" validate:"required,max=300"`
	ScheduledAt   *time.Time            `json:"scheduled_at"`
	Location      string                `json:"location" validate:"max=200"`
	Status        model.InterviewStatus `json:"status" validate:"omitempty,oneof=scheduled completed transcribed"`
	Transcript    string                `json:"transcript"`
	Notes         string                `json:"notes"`
}

func (req interviewRequest) apply(i *model.Interview) {
	i.StorytellerID = req.StorytellerID
	i.InterviewerID = req.InterviewerID
	i.StoryID = req.StoryID
	i.Title = strings.TrimSpace(req.Title)
	i.ScheduledAt = req.ScheduledAt
	i.Location = req.Location
	i.Status = req.Status
	if i.Status == "" {
		i.Status = model.InterviewScheduled
	}
	i.Transcript = req.Transcript
	i.Notes = req.Notes
}

// RegisterInterviewsEndpoints registers the interview routes. Writes need an editor.
func RegisterInterviewsEndpoints(s *server.Server) {
	interviewsRouter := s.Router.PathPrefix("/interviews").Subrouter()
	interviewsRouter.Use(s.JWTMiddleware.Middleware)

	interviewsRouter.HandleFunc("", handleListInterviews(s)).Methods("GET")
	interviewsRouter.Handle("", middleware.RequireEditor(handleCreateInterview(s))).Methods("POST")
	interviewsRouter.HandleFunc("/{id}", handleGetInterview(s.Interviews)).Methods("GET")
	interviewsRouter.Handle("/{id}", middleware.RequireEditor(handleReplaceInterview(s))).Methods("PUT")
	interviewsRouter.Handle("/{id}", middleware.RequireEditor(handleDeleteInterview(s))).Methods("DELETE")
}

func handleListInterviews(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyteller, ok := parseOptionalID(w, r, "storyteller_id")
		if !ok {
			return
		}
		filter := store.InterviewFilter{
			Status:        model.InterviewStatus(r.URL.Query().Get("status")),
			StorytellerID: storyteller,
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

		interviews, err := s.Interviews.ListInterviews(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  interviews,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}

func handleCreateInterview(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		i := &model.Interview{}
		req.apply(i)

		err := s.Interviews.CreateInterview(r.Context(), i)
		recordMutation(s.Audit, r, audit.ActionCreate, entityInterview, i.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, i)
	}
}

func handleGetInterview(interviews store.InterviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		i, err := interviews.GetInterview(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if !canManage(caller(r), i.StorytellerID) {
			respondWithError(w, http.StatusForbidden, "forbidden")
			return
		}
		respondWithJSON(w, http.StatusOK, i)
	}
}

func handleReplaceInterview(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req interviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		i := &model.Interview{ID: id}
		req.apply(i)

		err := s.Interviews.ReplaceInterview(r.Context(), i)
		recordMutation(s.Audit, r, audit.ActionUpdate, entityInterview, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		updated, err := s.Interviews.GetInterview(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteInterview(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		err := s.Interviews.DeleteInterview(r.Context(), id)
		recordMutation(s.Audit, r, audit.ActionDelete, entityInterview, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
