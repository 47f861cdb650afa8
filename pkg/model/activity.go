package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is one row of the audit trail.
type Activity struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID     `gorm:"type:uuid;column:actor_id;index" json:"actor_id,omitempty"`
	Action     string         `gorm:"not null;index" json:"action"`
	EntityType string         `gorm:"column:entity_type;not null" json:"entity_type"`
	EntityID   string         `gorm:"column:entity_id" json:"entity_id"`
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	ClientIP   string         `gorm:"column:client_ip" json:"client_ip,omitempty"`
	Details    datatypes.JSON `json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (a Activity) TableName() string {
	return "activity_log"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
