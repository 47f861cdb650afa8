package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server/store"
)

var _ store.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore implements store.CredentialsStore using GORM
type CredentialsStore struct {
	db *gorm.DB
}

// NewCredentialsStore creates a new CredentialsStore
func NewCredentialsStore(db *gorm.DB) *CredentialsStore {
	return &CredentialsStore{db: db}
}

func (s *CredentialsStore) GetCredential(ctx context.Context, profileID uuid.UUID) (*model.Credential, error) {
	var c model.Credential
	if err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *CredentialsStore) SetAPIKeyHash(ctx context.Context, profileID uuid.UUID, hash []byte) error {
	c := model.Credential{
		ProfileID:  profileID,
		APIKeyHash: hash,
		RotatedAt:  time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"api_key_hash", "rotated_at"}),
	}).Create(&c).Error
	return translate(err)
}

func (s *CredentialsStore) TouchCredential(ctx context.Context, profileID uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&model.Credential{}).
		Where("profile_id = ?", profileID).
		Update("last_used_at", time.Now().UTC()).Error
	return translate(err)
}
