package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

const entityProfile = "profile"

type createProfileRequest struct {
	ExternalID        *string           `json:"external_id" validate:"omitempty,max=200"`
	DisplayName       string            `json:"display_name" validate:"required,max=200"`
	Email             *string           `json:"email" validate:"omitempty,email"`
	Bio               string            `json:"bio"`
	Location          string            `json:"location" validate:"max=200"`
	Role              model.Role        `json:"role" validate:"omitempty,oneof=admin editor storyteller"`
	Permissions       model.Permissions `json:"permissions"`
	IsActive          *bool             `json:"is_active"`
	CulturalProtocols json.RawMessage   `json:"cultural_protocols"`
	// IssueAPIKey generates a key that is returned once in the response.
	IssueAPIKey bool `json:"issue_api_key"`
}

type updateProfileRequest struct {
	DisplayName       *string         `json:"display_name" validate:"omitempty,min=1,max=200"`
	Email             *string         `json:"email" validate:"omitempty,email"`
	Bio               *string         `json:"bio"`
	Location          *string         `json:"location" validate:"omitempty,max=200"`
	Role              *model.Role     `json:"role" validate:"omitempty,oneof=admin editor storyteller"`
	IsActive          *bool           `json:"is_active"`
	AvatarMediaID     *uuid.UUID      `json:"avatar_media_id"`
	CulturalProtocols json.RawMessage `json:"cultural_protocols"`
}

func (req updateProfileRequest) patch() store.ProfilePatch {
	p := store.ProfilePatch{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		Location:      req.Location,
		Role:          req.Role,
		IsActive:      req.IsActive,
		AvatarMediaID: req.AvatarMediaID,
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		p.Email = &email
	}
	if len(req.CulturalProtocols) > 0 {
		p.CulturalProtocols = datatypes.JSON(req.CulturalProtocols)
	}
	return p
}

// permissionsRequest requires every flag so a toggle can never be partial.
type permissionsRequest struct {
	CanPublish        *bool `json:"can_publish" validate:"required"`
	CanUpload         *bool `json:"can_upload" validate:"required"`
	CanManageProjects *bool `json:"can_manage_projects" validate:"required"`
}

type profileWithKey struct {
	*model.Profile
	APIKey string `json:"api_key,omitempty"`
}

// RegisterProfilesEndpoints registers the admin-only profile routes
func RegisterProfilesEndpoints(s *server.Server) {
	profilesRouter := s.Router.PathPrefix("/profiles").Subrouter()
	profilesRouter.Use(s.JWTMiddleware.Middleware)
	profilesRouter.Use(middleware.RequireAdmin)

	profilesRouter.HandleFunc("", handleListProfiles(s)).Methods("GET")
	profilesRouter.HandleFunc("", handleCreateProfile(s)).Methods("POST")
	profilesRouter.HandleFunc("/{id}", handleGetProfile(s.Profiles)).Methods("GET")
	profilesRouter.HandleFunc("/{id}", handleUpdateProfile(s)).Methods("PATCH")
	profilesRouter.HandleFunc("/{id}", handleDeleteProfile(s)).Methods("DELETE")
	profilesRouter.HandleFunc("/{id}/permissions", handleGetPermissions(s.Profiles)).Methods("GET")
	profilesRouter.HandleFunc("/{id}/permissions", handleSetPermissions(s)).Methods("PUT")
	profilesRouter.HandleFunc("/{id}/reset-key", handleResetKey(s)).Methods("POST")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func handleListProfiles(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.ProfileFilter{
			Role:       model.Role(q.Get("role")),
			Search:     strings.TrimSpace(q.Get("q")),
			ActiveOnly: boolQuery(r, "active"),
			Page:       parsePage(r, s.Config),
		}
		if filter.Role != "" && !filter.Role.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid role")
			return
		}

		profiles, err := s.Profiles.ListProfiles(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		total, err := s.Profiles.CountProfiles(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  profiles,
			Total:  &total,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}

func handleCreateProfile(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProfileRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p := &model.Profile{
			ExternalID:  req.ExternalID,
			DisplayName: strings.TrimSpace(req.DisplayName),
			Bio:         req.Bio,
			Location:    req.Location,
			Role:        req.Role,
			IsActive:    true,
		}
		if req.Email != nil {
			email := normalizeEmail(*req.Email)
			p.Email = &email
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if len(req.CulturalProtocols) > 0 {
			p.CulturalProtocols = datatypes.JSON(req.CulturalProtocols)
		}
		p.ApplyPermissions(req.Permissions)

		err := s.Profiles.CreateProfile(r.Context(), p)
		recordMutation(s.Audit, r, audit.ActionCreate, entityProfile, p.ID.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		resp := profileWithKey{Profile: p}
		if req.IssueAPIKey {
			key, err := s.Authenticator.RotateAPIKey(r.Context(), p.ID)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			resp.APIKey = key
		}
		respondWithJSON(w, http.StatusCreated, resp)
	}
}

func handleGetProfile(profiles store.ProfilesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		p, err := profiles.GetProfile(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, p)
	}
}

func handleUpdateProfile(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req updateProfileRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		patch := req.patch()
		if patch.Empty() {
			respondWithError(w, http.StatusUnprocessableEntity, "no fields to update")
			return
		}

		p, err := s.Profiles.UpdateProfile(r.Context(), id, patch)
		recordMutation(s.Audit, r, audit.ActionUpdate, entityProfile, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, p)
	}
}

func handleDeleteProfile(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if caller(r).Owns(id) {
			respondWithError(w, http.StatusConflict, "cannot delete your own profile")
			return
		}

		err := s.Profiles.DeleteProfile(r.Context(), id)
		recordMutation(s.Audit, r, audit.ActionDelete, entityProfile, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleGetPermissions(profiles store.ProfilesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		p, err := profiles.GetProfile(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, p.Permissions())
	}
}

func handleSetPermissions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var req permissionsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		perms := model.Permissions{
			CanPublish:        *req.CanPublish,
			CanUpload:         *req.CanUpload,
			CanManageProjects: *req.CanManageProjects,
		}

		p, err := s.Profiles.SetPermissions(r.Context(), id, perms)
		recordMutation(s.Audit, r, audit.ActionPermissions, entityProfile, id.String(), err, map[string]interface{}{
			"can_publish":         perms.CanPublish,
			"can_upload":          perms.CanUpload,
			"can_manage_projects": perms.CanManageProjects,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, p.Permissions())
	}
}

func handleResetKey(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		key, err := s.Authenticator.RotateAPIKey(r.Context(), id)
		recordMutation(s.Audit, r, audit.ActionResetKey, entityProfile, id.String(), err, nil)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"api_key": key})
	}
}
