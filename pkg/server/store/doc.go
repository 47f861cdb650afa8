// Package store provides storage abstractions for the storyhub server.
//
// Endpoints, importers and report generators depend on the interfaces in
// this package rather than on GORM directly. The gorm subpackage holds the
// database-backed implementations; tests substitute testify mocks.
//
// # Available Stores
//
//   - ProfilesStore: Profiles and their permission flags
//   - CredentialsStore: API key hashes
//   - StoriesStore: Stories, slugs and publication state
//   - MediaStore: Media file metadata and duplicate lookup
//   - InterviewsStore, ProjectsStore, ServicesStore: Programme records
//   - KnowledgeStore: Knowledge base entries and search
//   - ActivityStore: Audit trail persistence
//   - StatsStore: Row projections used by dashboards and reports
//   - HealthStore: Database connectivity
//
// # Errors
//
// Implementations translate driver errors into the sentinel errors below
// so callers can map them to HTTP statuses with errors.Is:
//
//	story, err := stories.GetStory(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
package store
