package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EnrichmentTypeSemantic    = "semantic"
	EnrichmentTypePerformance = "performance"
	EnrichmentTypeTrend       = "trend"
)

// SignalEnrichment is derived metadata attached to a signal. Append-only.
type SignalEnrichment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	SignalID       uuid.UUID `gorm:"type:uuid;column:signal_id;not null;index" json:"signal_id"`
	EnrichmentType string    `gorm:"column:enrichment_type;not null" json:"enrichment_type"`

	Entities   datatypes.JSON `gorm:"column:entities;type:jsonb" json:"entities"`
	Sentiment  *float64       `gorm:"column:sentiment" json:"sentiment,omitempty"`
	TrendScore *float64       `gorm:"column:trend_score" json:"trend_score,omitempty"`
	Features   datatypes.JSON `gorm:"column:features;type:jsonb" json:"features,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (SignalEnrichment) TableName() string { return "signal_enrichment" }

// EntityList decodes the jsonb entities array.
func (e *SignalEnrichment) EntityList() []string {
	var out []string
	if len(e.Entities) > 0 {
		_ = json.Unmarshal(e.Entities, &out)
	}
	return out
}

// FeatureStrings returns the named feature as a flat string list. Accepts
// either a JSON array of strings or a single string.
func (e *SignalEnrichment) FeatureStrings(key string) []string {
	if len(e.Features) == 0 {
		return nil
	}
	var features map[string]any
	if err := json.Unmarshal(e.Features, &features); err != nil {
		return nil
	}
	switch v := features[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}
