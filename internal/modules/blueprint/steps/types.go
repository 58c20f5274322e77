package steps

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
)

// Blueprint is the single typed schema both generators produce. The LLM path
// is normalized into it before anything downstream sees the result.
type Blueprint struct {
	ArtifactID  *uuid.UUID `json:"artifact_id"`
	CampaignID  uuid.UUID  `json:"campaign_id"`
	GeneratedAt time.Time  `json:"generated_at"`

	Summary            string               `json:"summary"`
	Insights           Insights             `json:"insights"`
	AudienceHypotheses []AudienceHypothesis `json:"audience_hypotheses"`
	ValuePropositions  []ValueProposition   `json:"value_propositions"`
	MessagingPillars   []MessagingPillar    `json:"messaging_pillars"`
	DraftAssets        []DraftAsset         `json:"draft_assets"`
	NextActions        []string             `json:"next_actions"`

	Metadata Metadata `json:"metadata"`
}

type Insights struct {
	TopEntities           []string           `json:"top_entities"`
	TrendingTopics        []string           `json:"trending_topics"`
	SentimentDistribution map[string]float64 `json:"sentiment_distribution"`
}

type AudienceHypothesis struct {
	Audience          string   `json:"audience"`
	FocusEntities     []string `json:"focus_entities"`
	PainPoints        []string `json:"pain_points"`
	LanguageNotes     []string `json:"language_notes"`
	SupportingSignals []string `json:"supporting_signals"`
}

type ValueProposition struct {
	Statement          string   `json:"statement"`
	SupportingEntities []string `json:"supporting_entities"`
	TrendScore         *float64 `json:"trend_score"`
	ProofPoints        []string `json:"proof_points"`
}

type MessagingPillar struct {
	Pillar         string   `json:"pillar"`
	KeyMessages    []string `json:"key_messages"`
	SupportingURLs []string `json:"supporting_urls"`
	RelevanceScore float64  `json:"relevance_score"`
}

type DraftAsset struct {
	ID                string           `json:"id"`
	Platform          string           `json:"platform"`
	Objective         string           `json:"objective"`
	AudienceFocus     []string         `json:"audience_focus"`
	Headline          string           `json:"headline"`
	PrimaryText       string           `json:"primary_text"`
	CTA               string           `json:"cta"`
	SupportingSignals []string         `json:"supporting_signals"`
	CreativeHooks     []string         `json:"creative_hooks"`
	Variations        []AssetVariation `json:"variations"`
}

type AssetVariation struct {
	Headline    string `json:"headline"`
	PrimaryText string `json:"primary_text"`
	CTA         string `json:"cta"`
}

type Metadata struct {
	GenerationMethod string         `json:"generation_method"` // "llm" | "rule_based"
	LLMUsed          bool           `json:"llm_used"`
	LLMError         string         `json:"llm_error,omitempty"`
	LLMProvider      string         `json:"llm_provider,omitempty"`
	LLMModel         string         `json:"llm_model,omitempty"`
	TokensUsed       int            `json:"tokens_used,omitempty"`
	AssetCounts      map[string]int `json:"asset_counts,omitempty"`
	RuleBasedPreview *Preview       `json:"rule_based_preview,omitempty"`
	Persisted        bool           `json:"persisted"`
}

// Preview is the condensed rule-based baseline attached to every result so
// callers can compare the LLM output against it.
type Preview struct {
	Summary          string            `json:"summary"`
	MessagingPillars []MessagingPillar `json:"messaging_pillars"`
	DraftAssets      []PreviewAsset    `json:"draft_assets"`
}

type PreviewAsset struct {
	Platform      string   `json:"platform"`
	Headline      string   `json:"headline"`
	AudienceFocus []string `json:"audience_focus"`
}

// GenerationContext is the read-only snapshot both generators consume.
type GenerationContext struct {
	Campaign       *types.Campaign
	Brief          types.Brief
	Signals        []*types.Signal
	Enrichments    []*types.SignalEnrichment
	Analyses       []*types.SignalAnalysis
	StrategicBrief *types.StrategicBrief
}

// SignalIDSet returns the identifiers of every signal in the context. Asset
// supporting_signals must stay a subset of this set.
func (c *GenerationContext) SignalIDSet() map[string]bool {
	ids := make(map[string]bool, len(c.Signals))
	for _, s := range c.Signals {
		ids[s.ID.String()] = true
	}
	return ids
}

// Channels returns the declared channels, defaulting to google_ads when the
// brief declares none.
func (c *GenerationContext) Channels() []string {
	if len(c.Brief.Channels) == 0 {
		return []string{DefaultChannel}
	}
	return c.Brief.Channels
}

const DefaultChannel = "google_ads"

// GenerationError wraps any LLM call, parse, or validation failure. The
// orchestrator recovers from it by falling back to the rule-based path.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("blueprint generation: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError means generation succeeded but the artifact write failed.
// Callers can retry persistence without regenerating.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("blueprint persistence: %v", e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
