package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BlueprintArtifact is a persisted, immutable blueprint for a campaign.
// Regeneration always creates a new row with the next version; rows are never
// updated in place.
type BlueprintArtifact struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CampaignID uuid.UUID `gorm:"type:uuid;column:campaign_id;not null;index:idx_blueprint_campaign_version,unique,priority:1" json:"campaign_id"`
	Version    int       `gorm:"column:version;not null;index:idx_blueprint_campaign_version,unique,priority:2" json:"version"`

	Summary   string         `gorm:"column:summary;not null" json:"summary"`
	Blueprint datatypes.JSON `gorm:"column:blueprint;type:jsonb;not null" json:"blueprint"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (BlueprintArtifact) TableName() string { return "campaign_blueprint" }
