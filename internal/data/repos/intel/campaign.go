package intel

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type CampaignRepo interface {
	Create(ctx context.Context, tx *gorm.DB, campaign *types.Campaign) (*types.Campaign, error)
	// GetScoped returns the campaign only when it belongs to the workspace;
	// a workspace mismatch is indistinguishable from a missing row.
	GetScoped(ctx context.Context, tx *gorm.DB, campaignID, workspaceID uuid.UUID) (*types.Campaign, error)
	ListByWorkspaceID(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, offset, limit int) ([]*types.Campaign, error)
	Update(ctx context.Context, tx *gorm.DB, campaign *types.Campaign) (*types.Campaign, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID, status string) error
	Delete(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) error
}

type campaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	return &campaignRepo{db: db, log: baseLog.With("repo", "CampaignRepo")}
}

func (r *campaignRepo) Create(ctx context.Context, tx *gorm.DB, campaign *types.Campaign) (*types.Campaign, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *campaignRepo) GetScoped(ctx context.Context, tx *gorm.DB, campaignID, workspaceID uuid.UUID) (*types.Campaign, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Campaign
	if err := transaction.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", campaignID, workspaceID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *campaignRepo) ListByWorkspaceID(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, offset, limit int) ([]*types.Campaign, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Campaign
	if err := transaction.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *campaignRepo) Update(ctx context.Context, tx *gorm.DB, campaign *types.Campaign) (*types.Campaign, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *campaignRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Campaign{}).
		Where("id = ?", campaignID).
		Update("status", status).Error
}

func (r *campaignRepo) Delete(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", campaignID).
		Delete(&types.Campaign{}).Error
}
