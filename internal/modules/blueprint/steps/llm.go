package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type GenerateLLMDeps struct {
	Client llm.Client
	Log    *logger.Logger

	MaxTokens int
}

type llmPayload struct {
	Summary            string               `json:"summary"`
	Insights           *llmInsights         `json:"insights"`
	AudienceHypotheses []AudienceHypothesis `json:"audience_hypotheses"`
	ValuePropositions  []ValueProposition   `json:"value_propositions"`
	MessagingPillars   []MessagingPillar    `json:"messaging_pillars"`
	DraftAssets        []DraftAsset         `json:"draft_assets"`
	NextActions        []string             `json:"next_actions"`
}

type llmInsights struct {
	TopEntities           []string           `json:"top_entities"`
	TrendingTopics        []string           `json:"trending_topics"`
	SentimentDistribution map[string]float64 `json:"sentiment_distribution"`
}

// GenerateLLM builds the prompt, invokes the provider and normalizes its JSON
// into the typed schema. Every failure surfaces as a single *GenerationError;
// retries beyond the one fence-repair pass belong to the caller.
func GenerateLLM(ctx context.Context, deps GenerateLLMDeps, gc *GenerationContext, ruleBased Blueprint, customInstructions string) (Blueprint, error) {
	if deps.Client == nil {
		return Blueprint{}, &GenerationError{Err: fmt.Errorf("no LLM client configured")}
	}

	maxTokens := deps.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4000
	}

	prompt, err := buildPrompt(gc, ruleBased, customInstructions)
	if err != nil {
		return Blueprint{}, &GenerationError{Err: err}
	}

	result, err := deps.Client.Complete(ctx, llm.CompletionRequest{
		System:      "You are an expert campaign strategist. Produce precise JSON, adhering strictly to the schema.",
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return Blueprint{}, &GenerationError{Err: fmt.Errorf("provider %s: %w", deps.Client.Provider(), err)}
	}

	payload, err := parsePayload(result.Text)
	if err != nil {
		return Blueprint{}, &GenerationError{Err: err}
	}

	bp := normalize(payload, gc, ruleBased)
	bp.Metadata = Metadata{
		GenerationMethod: "llm",
		LLMUsed:          true,
		LLMProvider:      result.Provider,
		LLMModel:         result.Model,
		TokensUsed:       result.TokensUsed,
	}
	return bp, nil
}

// parsePayload decodes the model output, allowing one repair pass that strips
// markdown code fences before giving up.
func parsePayload(text string) (*llmPayload, error) {
	var payload llmPayload
	trimmed := strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		repaired := stripFences(trimmed)
		if repaired == trimmed {
			return nil, fmt.Errorf("parse model JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, fmt.Errorf("parse model JSON after fence repair: %w", err)
		}
	}

	if strings.TrimSpace(payload.Summary) == "" {
		return nil, fmt.Errorf("model output missing summary")
	}
	if len(payload.DraftAssets) == 0 {
		return nil, fmt.Errorf("model output missing draft_assets")
	}
	return &payload, nil
}

var fenceOpen = regexp.MustCompile("^```[a-zA-Z]*")

func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimSpace(fenceOpen.ReplaceAllString(cleaned, ""))
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(cleaned[:len(cleaned)-3])
	}
	return cleaned
}

// normalize fills gaps in the model output from the rule-based baseline and
// scrubs assets so invariants hold: every asset has an id, a CTA and at least
// one variation, and supporting_signals never reference signals outside the
// assembled context.
func normalize(payload *llmPayload, gc *GenerationContext, fallback Blueprint) Blueprint {
	bp := Blueprint{
		CampaignID:  fallback.CampaignID,
		GeneratedAt: fallback.GeneratedAt,
		Summary:     payload.Summary,
		Insights:    mergeInsights(fallback.Insights, payload.Insights),
		NextActions: payload.NextActions,
	}

	bp.AudienceHypotheses = payload.AudienceHypotheses
	if bp.AudienceHypotheses == nil {
		bp.AudienceHypotheses = fallback.AudienceHypotheses
	}
	bp.ValuePropositions = payload.ValuePropositions
	if bp.ValuePropositions == nil {
		bp.ValuePropositions = fallback.ValuePropositions
	}
	bp.MessagingPillars = payload.MessagingPillars
	if bp.MessagingPillars == nil {
		bp.MessagingPillars = fallback.MessagingPillars
	}
	if bp.NextActions == nil {
		bp.NextActions = fallback.NextActions
	}

	knownSignals := gc.SignalIDSet()
	assets := make([]DraftAsset, 0, len(payload.DraftAssets))
	for _, asset := range payload.DraftAssets {
		assets = append(assets, normalizeAsset(asset, knownSignals))
	}
	bp.DraftAssets = assets

	for i := range bp.AudienceHypotheses {
		bp.AudienceHypotheses[i].SupportingSignals = filterSignalRefs(bp.AudienceHypotheses[i].SupportingSignals, knownSignals)
	}
	return bp
}

func normalizeAsset(asset DraftAsset, knownSignals map[string]bool) DraftAsset {
	if strings.TrimSpace(asset.ID) == "" {
		asset.ID = uuid.New().String()
	}
	if strings.TrimSpace(asset.CTA) == "" {
		asset.CTA = "Learn More"
	}
	if len(asset.Variations) == 0 {
		asset.Variations = []AssetVariation{{
			Headline:    asset.Headline,
			PrimaryText: asset.PrimaryText,
			CTA:         asset.CTA,
		}}
	}
	if asset.AudienceFocus == nil {
		asset.AudienceFocus = []string{}
	}
	if asset.CreativeHooks == nil {
		asset.CreativeHooks = []string{}
	}
	asset.SupportingSignals = filterSignalRefs(asset.SupportingSignals, knownSignals)
	return asset
}

func filterSignalRefs(refs []string, known map[string]bool) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if known[ref] {
			out = append(out, ref)
		}
	}
	return out
}

func mergeInsights(base Insights, override *llmInsights) Insights {
	merged := base
	if override == nil {
		return merged
	}
	if len(override.TopEntities) > 0 {
		merged.TopEntities = override.TopEntities
	}
	if len(override.TrendingTopics) > 0 {
		merged.TrendingTopics = override.TrendingTopics
	}
	if len(override.SentimentDistribution) > 0 {
		merged.SentimentDistribution = override.SentimentDistribution
	}
	return merged
}

const (
	maxPromptSignals   = 10
	maxSnippetChars    = 300
	maxAnalyses        = 3
	maxAnalysisSummary = 400
	maxBriefSnapshot   = 800
)

func buildPrompt(gc *GenerationContext, ruleBased Blueprint, customInstructions string) (string, error) {
	briefJSON, err := json.MarshalIndent(gc.Brief, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal brief: %w", err)
	}

	baseline := ruleBased
	baseline.Metadata = Metadata{}
	baselineJSON, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal baseline: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a senior marketing strategist tasked with producing a campaign blueprint.\n\n")
	b.WriteString("# DATA CONTEXT\n")
	b.WriteString("## Campaign Brief\n")
	b.Write(briefJSON)

	b.WriteString("\n\n## Signals (Top 10)\n")
	for i, s := range gc.Signals {
		if i >= maxPromptSignals {
			break
		}
		fmt.Fprintf(&b, "%d. [%s] query='%s' (relevance=%.2f)\n", i+1, s.Source, s.Query, s.RelevanceScore)
		if evidence := s.ParsedEvidence(); len(evidence) > 0 && evidence[0].Snippet != "" {
			fmt.Fprintf(&b, "   snippet: %s\n", truncate(evidence[0].Snippet, maxSnippetChars))
		}
	}

	b.WriteString("\n## Enrichment Highlights\n")
	fmt.Fprintf(&b, "- Pain points: %s\n", joinOrNA(collectFeatures(gc.Enrichments, "pain_points", 6)))
	fmt.Fprintf(&b, "- Language patterns: %s\n", joinOrNA(collectFeatures(gc.Enrichments, "language_patterns", 6)))
	fmt.Fprintf(&b, "- Key topics: %s\n", joinOrNA(collectFeatures(gc.Enrichments, "key_topics", 8)))

	if len(gc.Analyses) > 0 {
		b.WriteString("\n## Completed Analyses\n")
		for i, a := range gc.Analyses {
			if i >= maxAnalyses {
				break
			}
			insights := a.InsightsMap()
			summary, _ := insights["summary"].(string)
			confidence := "n/a"
			if c, ok := insights["confidence_score"]; ok {
				confidence = fmt.Sprintf("%v", c)
			}
			fmt.Fprintf(&b, "- %s analysis (confidence=%s): %s\n",
				titleWord(a.AnalysisType), confidence, truncate(summary, maxAnalysisSummary))
		}
	}

	if gc.StrategicBrief != nil {
		content := gc.StrategicBrief.ContentMap()
		snapshot := ""
		if sections, ok := content["sections"].(map[string]any); ok {
			snapshot, _ = sections["Executive Summary"].(string)
		}
		if snapshot == "" {
			snapshot, _ = content["full_text"].(string)
		}
		if snapshot != "" {
			b.WriteString("\n## Strategic Brief Snapshot\n")
			b.WriteString(truncate(snapshot, maxBriefSnapshot))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n# BASELINE RULE-BASED BLUEPRINT (REFERENCE)\n")
	b.Write(baselineJSON)

	b.WriteString("\n\n# INSTRUCTIONS\n")
	b.WriteString("Using the context and baseline above, craft an improved campaign blueprint.\n")
	b.WriteString("Respond with valid JSON matching the exact schema provided below. ")
	b.WriteString("Ensure draft assets include an `id` (UUID), `headline`, `primary_text`, `cta`, ")
	b.WriteString("`audience_focus`, `supporting_signals`, `creative_hooks`, and at least one variation. ")
	b.WriteString("Ground every recommendation in the provided signals and analyses.\n")
	if custom := strings.TrimSpace(customInstructions); custom != "" {
		b.WriteString("Additional instructions from the requester:\n")
		b.WriteString(custom)
		b.WriteString("\n")
	}
	b.WriteString("Schema:\n")
	b.WriteString(schemaTemplate)
	b.WriteString("\nReturn JSON only, no prose, markdown, or additional commentary.")

	return b.String(), nil
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return "n/a"
	}
	return strings.Join(values, ", ")
}

const schemaTemplate = `{
  "summary": "string",
  "insights": {
    "top_entities": ["string"],
    "trending_topics": ["string"],
    "sentiment_distribution": {"positive": 0.4, "neutral": 0.4, "negative": 0.2}
  },
  "audience_hypotheses": [
    {
      "audience": "string",
      "focus_entities": ["string"],
      "pain_points": ["string"],
      "language_notes": ["string"],
      "supporting_signals": ["uuid-string"]
    }
  ],
  "value_propositions": [
    {
      "statement": "string",
      "supporting_entities": ["string"],
      "trend_score": 0.75,
      "proof_points": ["string"]
    }
  ],
  "messaging_pillars": [
    {
      "pillar": "string",
      "key_messages": ["string"],
      "supporting_urls": ["https://example.com"],
      "relevance_score": 0.8
    }
  ],
  "draft_assets": [
    {
      "id": "uuid-string",
      "platform": "meta",
      "objective": "conversion",
      "audience_focus": ["Audience A"],
      "headline": "string",
      "primary_text": "string",
      "cta": "Learn More",
      "supporting_signals": ["uuid-string"],
      "creative_hooks": ["string"],
      "variations": [
        {"headline": "string", "primary_text": "string", "cta": "Get Started"}
      ]
    }
  ],
  "next_actions": ["string"]
}`
