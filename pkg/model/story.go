package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StoryStatus string

const (
	StoryDraft     StoryStatus = "draft"
	StoryReview    StoryStatus = "review"
	StoryPublished StoryStatus = "published"
	StoryArchived  StoryStatus = "archived"
)

func (s StoryStatus) Valid() bool {
	switch s {
	case StoryDraft, StoryReview, StoryPublished, StoryArchived:
		return true
	}
	return false
}

type Story struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID    *string                     `gorm:"column:external_id;uniqueIndex" json:"external_id,omitempty"`
	StorytellerID uuid.UUID                   `gorm:"type:uuid;column:storyteller_id;not null;index" json:"storyteller_id"`
	Title         string                      `gorm:"not null" json:"title"`
	Slug          string                      `gorm:"not null;uniqueIndex" json:"slug"`
	Summary       string                      `json:"summary"`
	Content       string                      `json:"content"`
	Category      string                      `gorm:"index" json:"category"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Status        StoryStatus                 `gorm:"not null;index" json:"status"`
	IsFeatured    bool                        `gorm:"column:is_featured" json:"is_featured"`
	ConsentGiven  bool                        `gorm:"column:consent_given" json:"consent_given"`
	Metadata      datatypes.JSON              `json:"metadata,omitempty"`
	PublishedAt   *time.Time                  `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (s Story) TableName() string {
	return "stories"
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	if s.Status == "" {
		s.Status = StoryDraft
	}
	if s.Tags == nil {
		s.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// IsPublic reports whether the story may be shown without signing in.
func (s *Story) IsPublic() bool {
	return s.Status == StoryPublished && s.ConsentGiven
}
