package intel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type EnrichmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrichments []*types.SignalEnrichment) ([]*types.SignalEnrichment, error)
	GetBySignalIDs(ctx context.Context, tx *gorm.DB, signalIDs []uuid.UUID) ([]*types.SignalEnrichment, error)
}

type enrichmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrichmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrichmentRepo {
	return &enrichmentRepo{db: db, log: baseLog.With("repo", "EnrichmentRepo")}
}

func (r *enrichmentRepo) Create(ctx context.Context, tx *gorm.DB, enrichments []*types.SignalEnrichment) ([]*types.SignalEnrichment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(enrichments) == 0 {
		return []*types.SignalEnrichment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&enrichments).Error; err != nil {
		return nil, err
	}
	return enrichments, nil
}

func (r *enrichmentRepo) GetBySignalIDs(ctx context.Context, tx *gorm.DB, signalIDs []uuid.UUID) ([]*types.SignalEnrichment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SignalEnrichment
	if len(signalIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("signal_id IN ?", signalIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
