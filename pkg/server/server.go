package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/fetch"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/reports"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/server/store"
	gormstore "github.com/storyhub-org/storyhub/pkg/server/store/gorm"
	"github.com/storyhub-org/storyhub/pkg/storage"
	"github.com/storyhub-org/storyhub/pkg/uploads"
)

// Version is reported by GET /status and stamped at build time with
// -ldflags "-X github.com/storyhub-org/storyhub/pkg/server.Version=...".
var Version = "dev"

// Stores groups every repository the endpoints use.
type Stores struct {
	Profiles    store.ProfilesStore
	Credentials store.CredentialsStore
	Stories     store.StoriesStore
	Media       store.MediaStore
	Interviews  store.InterviewsStore
	Projects    store.ProjectsStore
	Services    store.ServicesStore
	Knowledge   store.KnowledgeStore
	Activity    store.ActivityStore
	Stats       store.StatsStore
	Health      store.HealthStore
}

// NewGormStores builds every store on one database handle.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Profiles:    gormstore.NewProfilesStore(db),
		Credentials: gormstore.NewCredentialsStore(db),
		Stories:     gormstore.NewStoriesStore(db),
		Media:       gormstore.NewMediaStore(db),
		Interviews:  gormstore.NewInterviewsStore(db),
		Projects:    gormstore.NewProjectsStore(db),
		Services:    gormstore.NewServicesStore(db),
		Knowledge:   gormstore.NewKnowledgeStore(db),
		Activity:    gormstore.NewActivityStore(db),
		Stats:       gormstore.NewStatsStore(db),
		Health:      gormstore.NewHealthStore(db),
	}
}

type Server struct {
	Stores

	Config        *config.StoryhubConfig
	Router        *mux.Router
	Blobs         storage.BlobStore
	Uploads       *uploads.Processor
	Tokens        *authn.TokenIssuer
	Authenticator *authn.Authenticator
	JWTMiddleware *middleware.JWTAuthenticator
	Audit         *audit.Recorder
	Reports       *reports.Generator
	Fetch         *fetch.Client

	srv *http.Server
}

func NewServer(
	cfg *config.StoryhubConfig,
	stores Stores,
	blobs storage.BlobStore,
	tokens *authn.TokenIssuer,
	host string,
	port string,
) *Server {
	router := mux.NewRouter()

	jwt := middleware.NewJWTAuthenticator(tokens)
	jwt.ClientIP = func(r *http.Request) string { return middleware.ClientIP(r, cfg) }

	s := &Server{
		Stores:        stores,
		Config:        cfg,
		Router:        router,
		Blobs:         blobs,
		Uploads:       uploads.NewProcessor(cfg, blobs, stores.Media),
		Tokens:        tokens,
		Authenticator: authn.NewAuthenticator(stores.Profiles, stores.Credentials, tokens),
		JWTMiddleware: jwt,
		Audit:         audit.NewRecorder(stores.Activity),
		Reports:       reports.NewGenerator(stores.Stats),
		Fetch:         fetch.NewFromConfig(cfg),
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		Addr:              host + ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler wraps the router with access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	logged := handlers.CombinedLoggingHandler(logging.Log.Writer(), s.Router)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logging.Log),
		handlers.PrintRecoveryStack(logging.Debug()),
	)(logged)
}

func (s *Server) Start() error {
	logging.Log.WithField("addr", s.srv.Addr).Info("storyhub server listening")
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
