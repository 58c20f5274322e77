package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type WorkspaceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, workspace *types.Workspace) (*types.Workspace, error)
	GetByID(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) (*types.Workspace, error)
}

type workspaceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
	return &workspaceRepo{db: db, log: baseLog.With("repo", "WorkspaceRepo")}
}

func (r *workspaceRepo) Create(ctx context.Context, tx *gorm.DB, workspace *types.Workspace) (*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(workspace).Error; err != nil {
		return nil, err
	}
	return workspace, nil
}

func (r *workspaceRepo) GetByID(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) (*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Workspace
	if err := transaction.WithContext(ctx).
		Where("id = ?", workspaceID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}
