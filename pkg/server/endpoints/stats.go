package endpoints

import (
	"errors"
	"net/http"

	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/reports"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// RegisterStatsEndpoints registers the dashboard and report routes for editors
func RegisterStatsEndpoints(s *server.Server) {
	statsRouter := s.Router.PathPrefix("/stats").Subrouter()
	statsRouter.Use(s.JWTMiddleware.Middleware)
	statsRouter.Use(middleware.RequireEditor)

	statsRouter.HandleFunc("/impact", handleImpact(s.Reports)).Methods("GET")
	statsRouter.HandleFunc("/stories", handleStoryStats(s.Reports)).Methods("GET")
	statsRouter.HandleFunc("/fetch", handleFetchStats(s)).Methods("GET")

	reportsRouter := s.Router.PathPrefix("/reports").Subrouter()
	reportsRouter.Use(s.JWTMiddleware.Middleware)
	reportsRouter.Use(middleware.RequireEditor)

	reportsRouter.HandleFunc("/funder", handleFunderReport(s.Reports)).Methods("GET")
}

// RegisterActivityEndpoints registers the admin-only audit trail
func RegisterActivityEndpoints(s *server.Server) {
	activityRouter := s.Router.PathPrefix("/activity").Subrouter()
	activityRouter.Use(s.JWTMiddleware.Middleware)
	activityRouter.Use(middleware.RequireAdmin)

	activityRouter.HandleFunc("", handleListActivity(s)).Methods("GET")
}

// dashboardError is returned when a dashboard query fails; the client is
// expected to retry.
func dashboardError(w http.ResponseWriter, err error) {
	logging.Log.WithError(err).Error("dashboard query failed")
	respondWithError(w, http.StatusInternalServerError, "failed to load statistics, please retry")
}

func handleImpact(g *reports.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		impact, err := g.Impact(r.Context())
		if err != nil {
			dashboardError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, impact)
	}
}

func handleStoryStats(g *reports.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr, ok := parseRange(w, r)
		if !ok {
			return
		}
		breakdown, err := g.Stories(r.Context(), tr)
		if err != nil {
			dashboardError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, breakdown)
	}
}

func handleFetchStats(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Fetch.Stats())
	}
}

// handleFunderReport serves JSON by default, or Markdown and HTML renderings
// with format=markdown|html. Without from, the period starts a year before to.
func handleFunderReport(g *reports.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr, ok := parseRange(w, r)
		if !ok {
			return
		}
		if tr.To.IsZero() {
			tr.To = g.Now()
		}
		if tr.From.IsZero() {
			tr.From = tr.To.AddDate(-1, 0, 0)
		}

		report, err := g.Funder(r.Context(), tr.From, tr.To)
		if err != nil {
			if errors.Is(err, reports.ErrInvalidPeriod) {
				respondWithError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			dashboardError(w, err)
			return
		}

		switch r.URL.Query().Get("format") {
		case "", "json":
			respondWithJSON(w, http.StatusOK, report)
		case "markdown", "md":
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			_, _ = w.Write([]byte(report.Markdown()))
		case "html":
			html, err := report.HTML()
			if err != nil {
				dashboardError(w, err)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(html))
		default:
			respondWithError(w, http.StatusBadRequest, "format must be json, markdown or html")
		}
	}
}

func handleListActivity(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := parseOptionalID(w, r, "actor_id")
		if !ok {
			return
		}
		q := r.URL.Query()
		filter := store.ActivityFilter{
			Action:     q.Get("action"),
			EntityType: q.Get("entity_type"),
			ActorID:    actor,
			Page:       parsePage(r, s.Config),
		}

		entries, err := s.Activity.ListActivity(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if entries == nil {
			entries = []model.Activity{}
		}
		respondWithJSON(w, http.StatusOK, listResponse{
			Items:  entries,
			Limit:  filter.Page.Limit,
			Offset: filter.Page.Offset,
		})
	}
}
