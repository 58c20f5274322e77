package intel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type SignalAnalysisRepo interface {
	Create(ctx context.Context, tx *gorm.DB, analysis *types.SignalAnalysis) (*types.SignalAnalysis, error)
	// GetCompletedByCampaignID returns completed analyses, newest first.
	GetCompletedByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID, limit int) ([]*types.SignalAnalysis, error)
}

type signalAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSignalAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) SignalAnalysisRepo {
	return &signalAnalysisRepo{db: db, log: baseLog.With("repo", "SignalAnalysisRepo")}
}

func (r *signalAnalysisRepo) Create(ctx context.Context, tx *gorm.DB, analysis *types.SignalAnalysis) (*types.SignalAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(analysis).Error; err != nil {
		return nil, err
	}
	return analysis, nil
}

func (r *signalAnalysisRepo) GetCompletedByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID, limit int) ([]*types.SignalAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	var results []*types.SignalAnalysis
	if err := transaction.WithContext(ctx).
		Where("campaign_id = ? AND status = ?", campaignID, types.AnalysisStatusCompleted).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
