package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationService struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null;uniqueIndex" json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	ContactEmail string    `gorm:"column:contact_email" json:"contact_email"`
	IsActive     bool      `gorm:"column:is_active" json:"is_active"`
	SortOrder    int       `gorm:"column:sort_order" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (o OrganizationService) TableName() string {
	return "organization_services"
}

func (o *OrganizationService) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
