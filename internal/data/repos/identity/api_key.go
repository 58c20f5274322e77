package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type APIKeyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, key *types.APIKey) (*types.APIKey, error)
	GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.APIKey, error)
	TouchLastUsed(ctx context.Context, tx *gorm.DB, keyID uuid.UUID) error
	Revoke(ctx context.Context, tx *gorm.DB, keyID uuid.UUID) error
}

type apiKeyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAPIKeyRepo(db *gorm.DB, baseLog *logger.Logger) APIKeyRepo {
	return &apiKeyRepo{db: db, log: baseLog.With("repo", "APIKeyRepo")}
}

func (r *apiKeyRepo) Create(ctx context.Context, tx *gorm.DB, key *types.APIKey) (*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(key).Error; err != nil {
		return nil, err
	}
	return key, nil
}

func (r *apiKeyRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.APIKey
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, tx *gorm.DB, keyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.APIKey{}).
		Where("id = ?", keyID).
		Update("last_used_at", now).Error
}

func (r *apiKeyRepo) Revoke(ctx context.Context, tx *gorm.DB, keyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.APIKey{}).
		Where("id = ? AND revoked_at IS NULL", keyID).
		Update("revoked_at", now).Error
}
