package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// StatusResponse represents the response from /status
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// RegisterStatusEndpoints registers the unauthenticated health endpoint
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/status", handleStatus(s.Health)).Methods("GET")
}

func handleStatus(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := health.CheckConnectivity(ctx); err != nil {
			logging.Log.WithError(err).Warn("database connectivity check failed")
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Status:   "error",
				Database: "unreachable",
				Version:  server.Version,
			})
			return
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:   "ok",
			Database: "ok",
			Version:  server.Version,
		})
	}
}
