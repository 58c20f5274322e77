package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AnalysisTypeComprehensive = "comprehensive"
	AnalysisTypeCompetitor    = "competitor"
	AnalysisTypeAudience      = "audience"
	AnalysisTypeMessaging     = "messaging"
	AnalysisTypeCreative      = "creative"
	AnalysisTypeTrends        = "trends"
)

const (
	AnalysisStatusPending    = "pending"
	AnalysisStatusInProgress = "in_progress"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

// SignalAnalysis is an LLM-produced analysis over a filtered signal set.
type SignalAnalysis struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CampaignID uuid.UUID `gorm:"type:uuid;column:campaign_id;not null;index" json:"campaign_id"`

	AnalysisType string `gorm:"column:analysis_type;not null;default:'comprehensive'" json:"analysis_type"`
	Status       string `gorm:"column:status;not null;default:'pending';index" json:"status"`

	LLMProvider string `gorm:"column:llm_provider" json:"llm_provider,omitempty"`
	LLMModel    string `gorm:"column:llm_model" json:"llm_model,omitempty"`
	TokensUsed  *int   `gorm:"column:tokens_used" json:"tokens_used,omitempty"`

	Insights     datatypes.JSON `gorm:"column:insights;type:jsonb" json:"insights,omitempty"`
	RawResponse  string         `gorm:"column:raw_response;type:text" json:"-"`
	ErrorMessage string         `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (SignalAnalysis) TableName() string { return "signal_analysis" }

// InsightsMap decodes the jsonb insights payload.
func (a *SignalAnalysis) InsightsMap() map[string]any {
	var out map[string]any
	if len(a.Insights) > 0 {
		_ = json.Unmarshal(a.Insights, &out)
	}
	return out
}
