// Package audit records the activity log.
//
// Every mutation, sign-in and import run produces an Event. The Recorder
// writes each event to the structured log and persists it to the
// activity_log table.
//
// # Event Types
//
//   - MutationEvent: create, update, delete and status changes on any entity
//   - AuthenticateEvent: sign-in attempts, successful or not
//   - UploadEvent: the outcome of one upload batch
//   - ImportEvent: the outcome of one import run
//
// # Usage
//
//	rec := audit.NewRecorder(activityStore)
//	rec.Record(ctx, audit.MutationEvent{
//		Action:     audit.ActionCreate,
//		EntityType: "story",
//		EntityID:   story.ID.String(),
//		Success:    true,
//	})
package audit
