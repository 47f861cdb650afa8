package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

const entityProject = "project"

type projectRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status" validate:"omitempty,oneof=idea active paused completed"`
	Funder      string              `json:"funder" validate:"max=200"`
	BudgetCents int64               `json:"budget_cents" validate:"min=0"`
	StartsOn    *time.Time          `json:"starts_on"`
	EndsOn      *time.Time          `json:"ends_on"`
	LeadID      *uuid.UUID          `json:"lead_id"`
}

func (req projectRequest) apply(p *model.Project) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Status = req.Status
	if p.Status == "" {
		p.Status = model.ProjectIdea
	}
	p.Funder = strings.TrimSpace(req.Funder)
	p.BudgetCents = req.BudgetCents
	p.StartsOn = req.StartsOn
	p.EndsOn = req.EndsOn
	p.LeadID = req.LeadID
}

func (req projectRequest) check() string {
	if req.StartsOn != nil && req.EndsOn != nil && req.EndsOn.Before(*req.StartsOn) {
		return "ends_on must not be before starts_on"
	}
	return ""
}

// RegisterProjectsEndpoints registers the project routes. Writes need the
// manage_projects permission.
func RegisterProjectsEndpoints(s *server.Server) {
	projectsRouter := s.Router.PathPrefix("/projects").Subrouter()
	projectsRouter.Use(s.JWTMiddleware.Middleware)

	manageProjects := middleware.RequirePermission(identity.PermissionManageProjects)

	projectsRouter.HandleFunc("", handleListProjects(s)).Methods("GET")
	projectsRouter.Handle("", manageProjects(handleCreateProject(s))).Methods("POST")
	projectsRouter.HandleFunc("/{id}", handleGetProject(s.Projects)).Methods("GET")
	projectsRouter.Handle("/{id}", manageProjects(handleReplaceProject(s))).Methods("PUT")
	projectsRouter.Handle("/{id}", manageProjects(handleDeleteProject(s))).Methods("DELETE")
}

func handleListProjects(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.ProjectFilter{
			Status: model.ProjectStatus(q.Get("status")),
			Funder: q.Get("funder"),
			Page:   parsePage(r, s.Config),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}

		projects, err := s.Projects.ListProjects(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  projects,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}

func handleCreateProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if msg := req.check(); msg != "" {
			respondWithError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		p := &model.Project{}
		req.apply(p)

		err := s.Projects.CreateProject(r.Context(), p)
		recordMutation(s.Audit, r, audit.ActionCreate, entityProject, p.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, p)
	}
}

func handleGetProject(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		p, err := projects.GetProject(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, p)
	}
}

func handleReplaceProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req projectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if msg := req.check(); msg != "" {
			respondWithError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		p := &model.Project{ID: id}
		req.apply(p)

		err := s.Projects.ReplaceProject(r.Context(), p)
		recordMutation(s.Audit, r, audit.ActionUpdate, entityProject, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		updated, err := s.Projects.GetProject(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		err := s.Projects.DeleteProject(r.Context(), id)
		recordMutation(s.Audit, r, audit.ActionDelete, entityProject, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
