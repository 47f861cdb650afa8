// Package server provides the HTTP server for the storyhub API.
//
// The Server struct holds the router, the typed stores and the services
// the endpoints share: blob storage, the upload processor, the
// authenticator, the activity recorder, the report generator and the fetch
// client.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, server.NewGormStores(db), blobs, tokens, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Endpoints are registered by the endpoints subpackage.
package server
