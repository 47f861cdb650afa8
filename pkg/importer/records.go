package importer

import (
	"encoding/json"
	"time"
)

// ProfileRecord is a storyteller as it appears in an import file.
type ProfileRecord struct {
	ExternalID        string          `json:"external_id" yaml:"external_id" validate:"required,max=200"`
	DisplayName       string          `json:"display_name" yaml:"display_name" validate:"required,max=200"`
	Email             string          `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Bio               string          `json:"bio,omitempty" yaml:"bio,omitempty"`
	Location          string          `json:"location,omitempty" yaml:"location,omitempty"`
	Role              string          `json:"role,omitempty" yaml:"role,omitempty" validate:"omitempty,oneof=admin editor storyteller"`
	CulturalProtocols json.RawMessage `json:"cultural_protocols,omitempty" yaml:"-"`
}

// StoryRecord references its storyteller by external id.
type StoryRecord struct {
	ExternalID            string     `json:"external_id" yaml:"external_id" validate:"required,max=200"`
	StorytellerExternalID string     `json:"storyteller_external_id" yaml:"storyteller_external_id" validate:"required"`
	Title                 string     `json:"title" yaml:"title" validate:"required,max=300"`
	Summary               string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Content               string     `json:"content,omitempty" yaml:"content,omitempty"`
	Category              string     `json:"category,omitempty" yaml:"category,omitempty"`
	Tags                  []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Status                string     `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=draft review published archived"`
	ConsentGiven          bool       `json:"consent_given" yaml:"consent_given"`
	IsFeatured            bool       `json:"is_featured" yaml:"is_featured"`
	PublishedAt           *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
}

// Bundle is the top-level shape of an import document.
type Bundle struct {
	Profiles []ProfileRecord `json:"profiles" yaml:"profiles"`
	Stories  []StoryRecord   `json:"stories" yaml:"stories"`
}

// RecordError ties a failure to the record that caused it.
type RecordError struct {
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
}

// Result summarises one import run of a single record type.
type Result struct {
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Errors  []RecordError `json:"errors,omitempty"`
}

func (r *Result) fail(externalID string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RecordError{ExternalID: externalID, Message: err.Error()})
}

// Report is the outcome of importing a Bundle.
type Report struct {
	Profiles Result `json:"profiles"`
	Stories  Result `json:"stories"`
}
