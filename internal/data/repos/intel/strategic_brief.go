package intel

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type StrategicBriefRepo interface {
	// CreateNextVersion inserts the brief with version assigned inside a
	// transaction as MAX(version)+1 for the campaign.
	CreateNextVersion(ctx context.Context, tx *gorm.DB, brief *types.StrategicBrief) (*types.StrategicBrief, error)
	GetLatestByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) (*types.StrategicBrief, error)
}

type strategicBriefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStrategicBriefRepo(db *gorm.DB, baseLog *logger.Logger) StrategicBriefRepo {
	return &strategicBriefRepo{db: db, log: baseLog.With("repo", "StrategicBriefRepo")}
}

func (r *strategicBriefRepo) CreateNextVersion(ctx context.Context, tx *gorm.DB, brief *types.StrategicBrief) (*types.StrategicBrief, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var maxVersion int
		if err := inner.
			Model(&types.StrategicBrief{}).
			Where("campaign_id = ?", brief.CampaignID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}
		brief.Version = maxVersion + 1
		return inner.Create(brief).Error
	})
	if err != nil {
		return nil, err
	}
	return brief, nil
}

func (r *strategicBriefRepo) GetLatestByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) (*types.StrategicBrief, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.StrategicBrief
	if err := transaction.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
