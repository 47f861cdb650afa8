package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
)

type loginRequest struct {
	Email  string `json:"email" validate:"required,email"`
	APIKey string `json:"api_key" validate:"required"`
}

// LoginResponse carries a fresh access token
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Profile   *model.Profile `json:"profile"`
}

// RegisterAuthenticateEndpoint registers POST /authn/login
func RegisterAuthenticateEndpoint(s *server.Server) {
	s.Router.HandleFunc("/authn/login", handleLogin(s)).Methods("POST")
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		event := audit.AuthenticateEvent{
			Email:    email,
			ClientIP: middleware.ClientIP(r, s.Config),
		}

		session, err := s.Authenticator.Login(r.Context(), email, req.APIKey)
		if err != nil {
			event.ErrorMessage = err.Error()
			s.Audit.Record(r.Context(), event)
			if errors.Is(err, authn.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="storyhub"`)
				respondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}
			logging.Log.WithError(err).Error("login failed")
			respondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		event.Success = true
		event.ProfileID = &session.Profile.ID
		s.Audit.Record(r.Context(), event)

		respondWithJSON(w, http.StatusOK, LoginResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			Profile:   session.Profile,
		})
	}
}
