package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EvidenceItem is one piece of collected evidence inside Signal.Evidence.
type EvidenceItem struct {
	URL       string         `json:"url"`
	Timestamp string         `json:"timestamp"`
	Title     string         `json:"title,omitempty"`
	Snippet   string         `json:"snippet"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Signal is one piece of externally collected market evidence tied to a
// campaign. Immutable after creation except for enrichment linkage.
type Signal struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CampaignID uuid.UUID `gorm:"type:uuid;column:campaign_id;not null;index" json:"campaign_id"`

	Source       string `gorm:"column:source;not null;index" json:"source"` // serp_organic, meta_ads, reddit_organic, ...
	SearchMethod string `gorm:"column:search_method;not null" json:"search_method"`
	Query        string `gorm:"column:query;not null" json:"query"`

	Evidence   datatypes.JSON `gorm:"column:evidence;type:jsonb;not null" json:"evidence"`
	Provenance datatypes.JSON `gorm:"column:provenance;type:jsonb" json:"provenance,omitempty"`

	RelevanceScore float64 `gorm:"column:relevance_score;not null;default:0" json:"relevance_score"` // 0.0-1.0

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Signal) TableName() string { return "signal" }

// ParsedEvidence decodes the jsonb evidence list; malformed payloads decode to
// an empty slice.
func (s *Signal) ParsedEvidence() []EvidenceItem {
	var items []EvidenceItem
	if len(s.Evidence) > 0 {
		_ = json.Unmarshal(s.Evidence, &items)
	}
	return items
}
