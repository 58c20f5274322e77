package intel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type SignalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, signals []*types.Signal) ([]*types.Signal, error)
	// GetTopByCampaignID returns signals at or above the relevance floor,
	// highest relevance first, capped at limit.
	GetTopByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID, minRelevance float64, limit int) ([]*types.Signal, error)
	ListByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) ([]*types.Signal, error)
	CountByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) (int64, error)
}

type signalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSignalRepo(db *gorm.DB, baseLog *logger.Logger) SignalRepo {
	return &signalRepo{db: db, log: baseLog.With("repo", "SignalRepo")}
}

func (r *signalRepo) Create(ctx context.Context, tx *gorm.DB, signals []*types.Signal) ([]*types.Signal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(signals) == 0 {
		return []*types.Signal{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

func (r *signalRepo) GetTopByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID, minRelevance float64, limit int) ([]*types.Signal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 75
	}
	var results []*types.Signal
	if err := transaction.WithContext(ctx).
		Where("campaign_id = ? AND relevance_score >= ?", campaignID, minRelevance).
		Order("relevance_score DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *signalRepo) ListByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) ([]*types.Signal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Signal
	if err := transaction.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *signalRepo) CountByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Signal{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
