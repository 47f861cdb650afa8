package model

import (
	"time"

	"github.com/google/uuid"
)

// Credential stores the bcrypt hash of a profile's API key. The key itself
// is only ever shown once, when it is generated.
type Credential struct {
	ProfileID  uuid.UUID  `gorm:"type:uuid;primaryKey;column:profile_id"`
	APIKeyHash []byte     `gorm:"column:api_key_hash;not null"`
	RotatedAt  time.Time  `gorm:"column:rotated_at"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
}

func (c Credential) TableName() string {
	return "credentials"
}
