package intel

import (
	"context"

	"gorm.io/gorm"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type AuditLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.AuditLog) (*types.AuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Create(ctx context.Context, tx *gorm.DB, event *types.AuditLog) (*types.AuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}
