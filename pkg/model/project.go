package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectIdea      ProjectStatus = "idea"
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectIdea, ProjectActive, ProjectPaused, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `gorm:"not null;index" json:"status"`
	Funder      string        `json:"funder"`
	BudgetCents int64         `gorm:"column:budget_cents" json:"budget_cents"`
	StartsOn    *time.Time    `gorm:"column:starts_on" json:"starts_on,omitempty"`
	EndsOn      *time.Time    `gorm:"column:ends_on" json:"ends_on,omitempty"`
	LeadID      *uuid.UUID    `gorm:"type:uuid;column:lead_id" json:"lead_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (p Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = ProjectIdea
	}
	return nil
}
