package strategicbrief

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/apierr"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	LLM llm.Client

	Campaigns       repos.CampaignRepo
	Signals         repos.SignalRepo
	Analyses        repos.SignalAnalysisRepo
	StrategicBriefs repos.StrategicBriefRepo

	MaxTokens int
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

type GenerateInput struct {
	CampaignID  uuid.UUID
	WorkspaceID uuid.UUID

	CustomInstructions string
}

// Generate synthesizes a long-form strategic brief from completed analyses
// and persists it as the next version for the campaign. Unlike blueprints
// there is no deterministic fallback: without an LLM result the call fails.
func (u Usecases) Generate(ctx context.Context, in GenerateInput) (*types.StrategicBrief, error) {
	campaign, err := u.deps.Campaigns.GetScoped(ctx, nil, in.CampaignID, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if u.deps.LLM == nil {
		return nil, apierr.New(http.StatusInternalServerError, "llm_not_configured",
			fmt.Errorf("strategic brief generation requires an LLM provider"))
	}

	analyses, err := u.deps.Analyses.GetCompletedByCampaignID(ctx, nil, campaign.ID, 5)
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "no_completed_analyses",
			fmt.Errorf("no completed signal analyses found; run signal analysis first"))
	}

	signals, err := u.deps.Signals.ListByCampaignID(ctx, nil, campaign.ID)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(campaign, signals, analyses, in.CustomInstructions)

	maxTokens := u.deps.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	result, err := u.deps.LLM.Complete(ctx, llm.CompletionRequest{
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		failed := &types.StrategicBrief{
			CampaignID:         campaign.ID,
			Status:             "failed",
			CustomInstructions: in.CustomInstructions,
			ErrorMessage:       err.Error(),
			Content:            datatypes.JSON([]byte(`{}`)),
		}
		if _, persistErr := u.deps.StrategicBriefs.CreateNextVersion(ctx, nil, failed); persistErr != nil {
			u.deps.Log.Error("Failed to persist failed strategic brief", "campaign_id", campaign.ID, "error", persistErr)
		}
		return nil, fmt.Errorf("strategic brief generation: %w", err)
	}

	content := map[string]any{
		"full_text": result.Text,
		"sections":  parseSections(result.Text),
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal brief content: %w", err)
	}

	tokens := result.TokensUsed
	brief := &types.StrategicBrief{
		CampaignID:         campaign.ID,
		Status:             "completed",
		LLMProvider:        result.Provider,
		LLMModel:           result.Model,
		TokensUsed:         &tokens,
		Content:            datatypes.JSON(raw),
		CustomInstructions: in.CustomInstructions,
	}
	return u.deps.StrategicBriefs.CreateNextVersion(ctx, nil, brief)
}

func (u Usecases) GetLatest(ctx context.Context, campaignID, workspaceID uuid.UUID) (*types.StrategicBrief, error) {
	if _, err := u.deps.Campaigns.GetScoped(ctx, nil, campaignID, workspaceID); err != nil {
		return nil, err
	}
	return u.deps.StrategicBriefs.GetLatestByCampaignID(ctx, nil, campaignID)
}

const systemPrompt = `You are an expert marketing strategist who creates comprehensive strategic briefs.

Generate a detailed 2-page strategic brief based on the provided campaign data and market intelligence.

The brief must contain exactly these sections, as markdown "## " headers:
Executive Summary, Market Context, Target Audience Deep Dive, Messaging Strategy,
Channel Strategy & Tactics, Creative Direction, Success Metrics.

Make the brief actionable, data-driven, and specific. Use insights from the provided
analysis to support recommendations. Format the output as structured markdown.`

func buildPrompt(campaign *types.Campaign, signals []*types.Signal, analyses []*types.SignalAnalysis, customInstructions string) string {
	brief := campaign.ParsedBrief()

	var b strings.Builder
	b.WriteString("Based on the following campaign intelligence, generate a comprehensive 2-page strategic brief:\n\n")

	b.WriteString("# CAMPAIGN BRIEF\n")
	fmt.Fprintf(&b, "**Campaign Name:** %s\n", campaign.Name)
	fmt.Fprintf(&b, "**Goal:** %s\n", orNA(brief.Goal))
	fmt.Fprintf(&b, "**Offer:** %s\n", orNA(brief.Offer))
	fmt.Fprintf(&b, "**Target Audiences:** %s\n", strings.Join(brief.Audiences, ", "))
	fmt.Fprintf(&b, "**Competitors:** %s\n", strings.Join(brief.Competitors, ", "))
	fmt.Fprintf(&b, "**Channels:** %s\n", strings.Join(brief.Channels, ", "))
	fmt.Fprintf(&b, "**Budget Band:** %s\n", orNA(brief.BudgetBand))
	if brief.VoiceConstraints != "" {
		fmt.Fprintf(&b, "**Voice/Brand Constraints:** %s\n", brief.VoiceConstraints)
	}

	b.WriteString("\n# SIGNAL INTELLIGENCE\n")
	fmt.Fprintf(&b, "- **Total Signals Collected:** %d\n", len(signals))
	if len(signals) > 0 {
		var sum float64
		sources := map[string]int{}
		for _, s := range signals {
			sum += s.RelevanceScore
			sources[s.Source]++
		}
		fmt.Fprintf(&b, "- **Average Relevance Score:** %.2f\n", sum/float64(len(signals)))
		b.WriteString("- **Sources:**\n")
		for source, count := range sources {
			fmt.Fprintf(&b, "  - %s: %d signals\n", source, count)
		}
	}

	b.WriteString("\n# ANALYSIS INSIGHTS\n\n")
	for _, a := range analyses {
		fmt.Fprintf(&b, "## %s Analysis\n", titleWord(a.AnalysisType))
		insights := a.InsightsMap()
		if summary, ok := insights["summary"].(string); ok && summary != "" {
			fmt.Fprintf(&b, "**Summary:** %s\n\n", summary)
		}
		if keyInsights, ok := insights["key_insights"].([]any); ok {
			b.WriteString("**Key Insights:**\n")
			for _, insight := range keyInsights {
				fmt.Fprintf(&b, "- %v\n", insight)
			}
			b.WriteString("\n")
		}
	}

	if custom := strings.TrimSpace(customInstructions); custom != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", custom)
	}

	b.WriteString("\nGenerate the strategic brief now, following the structure exactly as specified.")
	return b.String()
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// parseSections splits markdown output on "## " headers into the fixed
// section map stored alongside the full text.
func parseSections(content string) map[string]string {
	sections := map[string]string{}
	current := ""
	var lines []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "# PAGE") {
			flush()
			current = strings.TrimSpace(strings.TrimLeft(line, "#"))
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return sections
}
