package endpoints

import (
	"net/http"
	"strings"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/importer"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
)

type importRequest struct {
	Source string `json:"source" validate:"required,url"`
	Kind   string `json:"kind" validate:"required,oneof=profiles stories bundle"`
}

// RegisterImportEndpoints registers the admin-only remote import route.
// Sources are fetched through the server's cached client.
func RegisterImportEndpoints(s *server.Server) {
	importsRouter := s.Router.PathPrefix("/imports").Subrouter()
	importsRouter.Use(s.JWTMiddleware.Middleware)
	importsRouter.Use(middleware.RequireAdmin)

	job := &importer.Job{
		Importer: importer.New(s.Profiles, s.Stories),
		Fetch:    s.Fetch,
		Audit:    s.Audit,
	}
	importsRouter.HandleFunc("", handleImport(job)).Methods("POST")
}

func handleImport(job *importer.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if !strings.HasPrefix(req.Source, "http://") && !strings.HasPrefix(req.Source, "https://") {
			respondWithError(w, http.StatusUnprocessableEntity, "source must be an http(s) URL")
			return
		}

		report, err := job.Run(r.Context(), audit.ActorFrom(caller(r)), req.Source, req.Kind)
		if err != nil {
			logging.Log.WithError(err).WithField("source", req.Source).Warn("import failed")
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, report)
	}
}
