package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	ProfileID   uuid.UUID         `json:"profile_id"`
	Email       string            `json:"email,omitempty"`
	DisplayName string            `json:"display_name"`
	Role        model.Role        `json:"role"`
	Permissions model.Permissions `json:"permissions"`
	ClientIP    string            `json:"client_ip,omitempty"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(s.JWTMiddleware.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)
		if id == nil {
			respondWithError(w, http.StatusUnauthorized, "unable to determine identity")
			return
		}

		response := WhoamiResponse{
			ProfileID:   id.ProfileID,
			Email:       id.Email,
			DisplayName: id.DisplayName,
			Role:        id.Role,
			Permissions: id.Permissions,
			ExpiresAt:   id.ExpiresAt,
		}
		if id.RemoteIP != nil {
			response.ClientIP = id.RemoteIP.String()
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}
