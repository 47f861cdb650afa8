package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleEditor      Role = "editor"
	RoleStoryteller Role = "storyteller"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleStoryteller:
		return true
	}
	return false
}

// Permissions are the capability flags an administrator toggles per profile.
type Permissions struct {
	CanPublish        bool `json:"can_publish"`
	CanUpload         bool `json:"can_upload"`
	CanManageProjects bool `json:"can_manage_projects"`
}

type Profile struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID        *string        `gorm:"column:external_id;uniqueIndex" json:"external_id,omitempty"`
	DisplayName       string         `gorm:"column:display_name;not null" json:"display_name"`
	Email             *string        `gorm:"column:email;uniqueIndex" json:"email,omitempty"`
	Bio               string         `json:"bio"`
	Location          string         `json:"location"`
	CulturalProtocols datatypes.JSON `gorm:"column:cultural_protocols" json:"cultural_protocols,omitempty"`
	Role              Role           `gorm:"not null" json:"role"`
	CanPublish        bool           `gorm:"column:can_publish" json:"can_publish"`
	CanUpload         bool           `gorm:"column:can_upload" json:"can_upload"`
	CanManageProjects bool           `gorm:"column:can_manage_projects" json:"can_manage_projects"`
	IsActive          bool           `gorm:"column:is_active" json:"is_active"`
	AvatarMediaID     *uuid.UUID     `gorm:"type:uuid;column:avatar_media_id" json:"avatar_media_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (p Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Role == "" {
		p.Role = RoleStoryteller
	}
	return nil
}

func (p *Profile) Permissions() Permissions {
	return Permissions{
		CanPublish:        p.CanPublish,
		CanUpload:         p.CanUpload,
		CanManageProjects: p.CanManageProjects,
	}
}

// ApplyPermissions overwrites all three flags, including false values.
func (p *Profile) ApplyPermissions(perms Permissions) {
	p.CanPublish = perms.CanPublish
	p.CanUpload = perms.CanUpload
	p.CanManageProjects = perms.CanManageProjects
}
