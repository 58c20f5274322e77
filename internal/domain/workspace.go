package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Workspace is the multi-tenancy boundary. Every campaign belongs to exactly
// one workspace and all reads are scoped by it.
type Workspace struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name    string     `gorm:"column:name;not null" json:"name"`
	OwnerID *uuid.UUID `gorm:"type:uuid;column:owner_id;index" json:"owner_id,omitempty"`

	Settings datatypes.JSON `gorm:"column:settings;type:jsonb" json:"settings,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Workspace) TableName() string { return "workspace" }
