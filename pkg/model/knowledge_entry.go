package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type KnowledgeEntry struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string                      `gorm:"not null;uniqueIndex" json:"slug"`
	Title       string                      `gorm:"not null" json:"title"`
	Category    string                      `gorm:"index" json:"category"`
	Content     string                      `json:"content"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Source      string                      `json:"source"`
	IsPublished bool                        `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (k KnowledgeEntry) TableName() string {
	return "knowledge_entries"
}

func (k *KnowledgeEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&k.ID)
	if k.Tags == nil {
		k.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}
