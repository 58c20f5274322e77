package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

// AuditService records workspace-scoped events. Recording is best-effort:
// failures are logged and never propagate into the calling operation.
type AuditService interface {
	Record(ctx context.Context, workspaceID uuid.UUID, userID *uuid.UUID, eventType, source string, details map[string]any)
}

type auditService struct {
	auditLogs repos.AuditLogRepo
	log       *logger.Logger
}

func NewAuditService(auditLogs repos.AuditLogRepo, baseLog *logger.Logger) AuditService {
	return &auditService{auditLogs: auditLogs, log: baseLog.With("service", "AuditService")}
}

func (s *auditService) Record(ctx context.Context, workspaceID uuid.UUID, userID *uuid.UUID, eventType, source string, details map[string]any) {
	var payload datatypes.JSON
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			s.log.Warn("Failed to marshal audit details", "event_type", eventType, "error", err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	if _, err := s.auditLogs.Create(ctx, nil, &types.AuditLog{
		WorkspaceID: workspaceID,
		UserID:      userID,
		EventType:   eventType,
		Source:      source,
		Details:     payload,
	}); err != nil {
		s.log.Warn("Failed to record audit event", "event_type", eventType, "error", err)
	}
}
