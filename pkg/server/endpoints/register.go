package endpoints

import (
	"github.com/storyhub-org/storyhub/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthenticateEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterProfilesEndpoints(srv)
	RegisterStoriesEndpoints(srv)
	RegisterMediaEndpoints(srv)
	RegisterInterviewsEndpoints(srv)
	RegisterProjectsEndpoints(srv)
	RegisterServicesEndpoints(srv)
	RegisterKnowledgeEndpoints(srv)
	RegisterStatsEndpoints(srv)
	RegisterActivityEndpoints(srv)
	RegisterImportEndpoints(srv)
	RegisterPublicEndpoints(srv)
	RegisterWebDAV(srv)
}
