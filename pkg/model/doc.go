// Package model defines the database models for storyhub.
//
// Every model maps to one table created by the SQL migrations under
// db/migrations. Primary keys are UUIDs assigned in BeforeCreate when the
// caller leaves them empty, so rows can be created offline by importers.
//
// # Core Models
//
//   - Profile: Storytellers, editors and administrators
//   - Credential: Hashed API keys used to sign in
//   - Story: A told story with consent and publication state
//   - MediaFile: Uploaded blobs and their metadata
//   - Interview: Scheduled or recorded conversations
//   - Project: Funded organisation projects
//   - KnowledgeEntry: Organisational knowledge base articles
//   - OrganizationService: Services the organisation offers
//   - Activity: Audit trail of mutations
//
// # Enumerations
//
// Status and role columns are plain strings in the database. Each has a
// named Go type with a Valid method used by request validation.
package model
