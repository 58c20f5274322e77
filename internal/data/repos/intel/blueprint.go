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

type BlueprintRepo interface {
	// CreateNextVersion inserts the artifact with version assigned inside a
	// transaction as MAX(version)+1 for the campaign. Artifacts are immutable;
	// there is no update path.
	CreateNextVersion(ctx context.Context, tx *gorm.DB, artifact *types.BlueprintArtifact) (*types.BlueprintArtifact, error)
	ListByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) ([]*types.BlueprintArtifact, error)
	GetByID(ctx context.Context, tx *gorm.DB, artifactID uuid.UUID) (*types.BlueprintArtifact, error)
}

type blueprintRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlueprintRepo(db *gorm.DB, baseLog *logger.Logger) BlueprintRepo {
	return &blueprintRepo{db: db, log: baseLog.With("repo", "BlueprintRepo")}
}

func (r *blueprintRepo) CreateNextVersion(ctx context.Context, tx *gorm.DB, artifact *types.BlueprintArtifact) (*types.BlueprintArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var maxVersion int
		if err := inner.
			Model(&types.BlueprintArtifact{}).
			Where("campaign_id = ?", artifact.CampaignID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}
		artifact.Version = maxVersion + 1
		return inner.Create(artifact).Error
	})
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

func (r *blueprintRepo) ListByCampaignID(ctx context.Context, tx *gorm.DB, campaignID uuid.UUID) ([]*types.BlueprintArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.BlueprintArtifact
	if err := transaction.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("version DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *blueprintRepo) GetByID(ctx context.Context, tx *gorm.DB, artifactID uuid.UUID) (*types.BlueprintArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.BlueprintArtifact
	if err := transaction.WithContext(ctx).
		Where("id = ?", artifactID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}
