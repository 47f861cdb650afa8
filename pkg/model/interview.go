package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewCompleted   InterviewStatus = "completed"
	InterviewTranscribed InterviewStatus = "transcribed"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewTranscribed:
		return true
	}
	return false
}

type Interview struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StorytellerID uuid.UUID       `gorm:"type:uuid;column:storyteller_id;not null;index" json:"storyteller_id"`
	InterviewerID *uuid.UUID      `gorm:"type:uuid;column:interviewer_id" json:"interviewer_id,omitempty"`
	StoryID       *uuid.UUID      `gorm:"type:uuid;column:story_id" json:"story_id,omitempty"`
	Title         string          `gorm:"not null" json:"title"`
	ScheduledAt   *time.Time      `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	Location      string          `json:"location"`
	Status        InterviewStatus `gorm:"not null;index" json:"status"`
	Transcript    string          `json:"transcript"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (i Interview) TableName() string {
	return "interviews"
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	if i.Status == "" {
		i.Status = InterviewScheduled
	}
	return nil
}
