package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Email          string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"column:hashed_password" json:"-"`
	WorkspaceID    *uuid.UUID `gorm:"type:uuid;column:workspace_id;index" json:"workspace_id,omitempty"`
	Role           string     `gorm:"column:role;not null;default:'user'" json:"role"` // "user" | "admin"

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// APIKey is a hashed secret issued to a user for programmatic access. Only the
// bcrypt hash is stored; the raw key is shown once at creation.
type APIKey struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	HashedKey string    `gorm:"column:hashed_key;not null" json:"-"`

	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (APIKey) TableName() string { return "api_key" }
