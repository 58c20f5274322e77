package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Campaign lifecycle statuses. The pipeline does not enforce transitions;
// status is informational metadata maintained by the CRUD layer.
const (
	CampaignStatusDraft            = "draft"
	CampaignStatusGatheringSignals = "gathering_signals"
	CampaignStatusAnalyzing        = "analyzing"
	CampaignStatusGenerating       = "generating"
	CampaignStatusCompleted        = "completed"
	CampaignStatusFailed           = "failed"
)

// Brief is the structured campaign input embedded in Campaign.Brief as jsonb.
type Brief struct {
	Goal             string   `json:"goal"`
	Audiences        []string `json:"audiences"`
	Offer            string   `json:"offer"`
	Competitors      []string `json:"competitors"`
	Channels         []string `json:"channels"` // linkedin, meta, tiktok, youtube, pinterest, google_ads, ...
	BudgetBand       string   `json:"budget_band"`
	VoiceConstraints string   `json:"voice_constraints,omitempty"`
}

type Campaign struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	WorkspaceID uuid.UUID `gorm:"type:uuid;column:workspace_id;not null;index" json:"workspace_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Status      string    `gorm:"column:status;not null;default:'draft';index" json:"status"`

	Brief datatypes.JSON `gorm:"column:brief;type:jsonb;not null" json:"brief"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Campaign) TableName() string { return "campaign" }

// ParsedBrief decodes the jsonb brief. A malformed brief decodes to the zero
// value rather than failing; the generators tolerate empty fields.
func (c *Campaign) ParsedBrief() Brief {
	var b Brief
	if len(c.Brief) > 0 {
		_ = json.Unmarshal(c.Brief, &b)
	}
	return b
}
