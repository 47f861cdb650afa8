package endpoints

import (
	"net/http"
	"strings"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

const entityService = "service"

type serviceRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Category     string `json:"category" validate:"max=100"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	IsActive     *bool  `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
}

func (req serviceRequest) apply(o *model.OrganizationService) {
	o.Name = strings.TrimSpace(req.Name)
	o.Category = strings.TrimSpace(req.Category)
	o.Description = req.Description
	o.ContactEmail = normalizeEmail(req.ContactEmail)
	o.IsActive = req.IsActive == nil || *req.IsActive
	o.SortOrder = req.SortOrder
}

// RegisterServicesEndpoints registers the organisation service routes.
// Writes are admin-only.
func RegisterServicesEndpoints(s *server.Server) {
	servicesRouter := s.Router.PathPrefix("/services").Subrouter()
	servicesRouter.Use(s.JWTMiddleware.Middleware)

	servicesRouter.HandleFunc("", handleListServices(s.Services)).Methods("GET")
	servicesRouter.Handle("", middleware.RequireAdmin(handleCreateService(s))).Methods("POST")
	servicesRouter.HandleFunc("/{id}", handleGetService(s.Services)).Methods("GET")
	servicesRouter.Handle("/{id}", middleware.RequireAdmin(handleReplaceService(s))).Methods("PUT")
	servicesRouter.Handle("/{id}", middleware.RequireAdmin(handleDeleteService(s))).Methods("DELETE")
}

func handleListServices(services store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := services.ListServices(r.Context(), boolQuery(r, "active"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{Items: list, Limit: len(list)})
	}
}

func handleCreateService(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req serviceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		o := &model.OrganizationService{}
		req.apply(o)

		err := s.Services.CreateService(r.Context(), o)
		recordMutation(s.Audit, r, audit.ActionCreate, entityService, o.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, o)
	}
}

func handleGetService(services store.ServicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		o, err := services.GetService(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, o)
	}
}

func handleReplaceService(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req serviceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		o := &model.OrganizationService{ID: id}
		req.apply(o)

		err := s.Services.ReplaceService(r.Context(), o)
		recordMutation(s.Audit, r, audit.ActionUpdate, entityService, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		updated, err := s.Services.GetService(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteService(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		err := s.Services.DeleteService(r.Context(), id)
		recordMutation(s.Audit, r, audit.ActionDelete, entityService, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
