package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is an append-only observability event.
type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	WorkspaceID uuid.UUID  `gorm:"type:uuid;column:workspace_id;not null;index" json:"workspace_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;column:user_id;index" json:"user_id,omitempty"`

	EventType string         `gorm:"column:event_type;not null;index" json:"event_type"`
	Source    string         `gorm:"column:source;not null" json:"source"`
	Details   datatypes.JSON `gorm:"column:details;type:jsonb" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_log" }
