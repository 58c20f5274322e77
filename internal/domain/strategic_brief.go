package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Fixed section keys of a strategic brief's content.
var StrategicBriefSections = []string{
	"Executive Summary",
	"Market Context",
	"Target Audience Deep Dive",
	"Messaging Strategy",
	"Channel Strategy & Tactics",
	"Creative Direction",
	"Success Metrics",
}

// StrategicBrief is a long-form synthesized strategy document, versioned per
// campaign.
type StrategicBrief struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CampaignID uuid.UUID `gorm:"type:uuid;column:campaign_id;not null;index" json:"campaign_id"`

	Status  string `gorm:"column:status;not null;default:'completed'" json:"status"` // completed | failed
	Version int    `gorm:"column:version;not null;default:1" json:"version"`

	LLMProvider string `gorm:"column:llm_provider" json:"llm_provider,omitempty"`
	LLMModel    string `gorm:"column:llm_model" json:"llm_model,omitempty"`
	TokensUsed  *int   `gorm:"column:tokens_used" json:"tokens_used,omitempty"`

	Content            datatypes.JSON `gorm:"column:content;type:jsonb;not null" json:"content"`
	CustomInstructions string         `gorm:"column:custom_instructions;type:text" json:"custom_instructions,omitempty"`
	ErrorMessage       string         `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StrategicBrief) TableName() string { return "strategic_brief" }

// ContentMap decodes the jsonb content payload.
func (b *StrategicBrief) ContentMap() map[string]any {
	var out map[string]any
	if len(b.Content) > 0 {
		_ = json.Unmarshal(b.Content, &out)
	}
	return out
}
