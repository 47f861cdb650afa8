package endpoints

import (
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/server"
	"github.com/storyhub-org/storyhub/pkg/server/middleware"
	"github.com/storyhub-org/storyhub/pkg/storage"
)

const davPrefix = "/dav"

// RegisterWebDAV exposes the media store read-only to admins when enabled.
// Only the filesystem store can be browsed.
func RegisterWebDAV(s *server.Server) {
	if !s.Config.WebDAVEnabled {
		return
	}
	fs, ok := s.Blobs.(*storage.FS)
	if !ok {
		logging.Log.Warn("webdav enabled but the media store is not a filesystem; skipping")
		return
	}

	davRouter := s.Router.PathPrefix(davPrefix + "/").Subrouter()
	davRouter.Use(s.JWTMiddleware.Middleware)
	davRouter.Use(middleware.RequireAdmin)
	davRouter.PathPrefix("/").Handler(fs.WebDAV(davPrefix))
}
