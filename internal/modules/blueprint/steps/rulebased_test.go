package steps

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
)

func mkCampaign(brief types.Brief) *types.Campaign {
	raw, _ := json.Marshal(brief)
	return &types.Campaign{
		ID:          uuid.MustParse("a3a6f1f2-6f5e-4f7a-9f2b-111111111111"),
		WorkspaceID: uuid.New(),
		Name:        "Spring Launch",
		Status:      types.CampaignStatusDraft,
		Brief:       datatypes.JSON(raw),
	}
}

func mkSignal(source, query string, relevance float64, evidence []types.EvidenceItem) *types.Signal {
	raw, _ := json.Marshal(evidence)
	return &types.Signal{
		ID:             uuid.New(),
		Source:         source,
		SearchMethod:   "query_search",
		Query:          query,
		Evidence:       datatypes.JSON(raw),
		RelevanceScore: relevance,
	}
}

func mkEnrichment(signalID uuid.UUID, entities []string, sentiment *float64, features map[string]any) *types.SignalEnrichment {
	rawEntities, _ := json.Marshal(entities)
	e := &types.SignalEnrichment{
		ID:             uuid.New(),
		SignalID:       signalID,
		EnrichmentType: types.EnrichmentTypeSemantic,
		Entities:       datatypes.JSON(rawEntities),
		Sentiment:      sentiment,
	}
	if features != nil {
		rawFeatures, _ := json.Marshal(features)
		e.Features = datatypes.JSON(rawFeatures)
	}
	return e
}

func floatPtr(v float64) *float64 { return &v }

func richContext() *GenerationContext {
	s1 := mkSignal("serp_organic", "crm for small teams", 0.9, []types.EvidenceItem{
		{URL: "https://example.com/a", Title: "CRM tools compared", Snippet: "Small teams struggle with bloated CRM pricing."},
		{URL: "https://example.com/b", Title: "Pipeline basics", Snippet: "Founders want pipeline visibility without setup cost."},
	})
	s2 := mkSignal("reddit_organic", "spreadsheet fatigue", 0.7, []types.EvidenceItem{
		{URL: "https://example.com/c", Title: "Leaving spreadsheets behind", Snippet: "Sales founders complain spreadsheets break at 50 deals."},
	})

	gc := &GenerationContext{
		Campaign: mkCampaign(types.Brief{
			Goal:      "increase demo signups",
			Audiences: []string{"startup founders", "sales managers"},
			Offer:     "Acme CRM",
			Channels:  []string{"linkedin", "google_ads"},
		}),
		Signals: []*types.Signal{s1, s2},
		Enrichments: []*types.SignalEnrichment{
			mkEnrichment(s1.ID, []string{"Acme CRM", "HubSpot"}, floatPtr(0.4), map[string]any{
				"pain_points":       []string{"pricing complexity", "setup time"},
				"language_patterns": []string{"just works"},
				"primary_pain":      "pricing complexity",
				"key_topics":        []string{"crm pricing"},
			}),
			mkEnrichment(s2.ID, []string{"HubSpot"}, floatPtr(-0.5), map[string]any{
				"pain_points": []string{"manual data entry"},
			}),
		},
	}
	gc.Brief = gc.Campaign.ParsedBrief()
	return gc
}

func TestBuildRuleBasedDeterministic(t *testing.T) {
	gc := richContext()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := BuildRuleBased(gc, at)
	second := BuildRuleBased(gc, at)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rule-based generation is not deterministic")
	}
	for i := range first.DraftAssets {
		if first.DraftAssets[i].ID != second.DraftAssets[i].ID {
			t.Fatalf("asset %d id changed between runs: %s vs %s", i, first.DraftAssets[i].ID, second.DraftAssets[i].ID)
		}
	}
}

func TestBuildRuleBasedChannelCoverage(t *testing.T) {
	gc := richContext()
	bp := BuildRuleBased(gc, time.Now())

	if len(bp.DraftAssets) != 10 {
		t.Fatalf("expected 10 assets for 2 channels, got %d", len(bp.DraftAssets))
	}
	counts := countAssets(bp.DraftAssets)
	if counts["linkedin"] != assetsPerChannel || counts["google_ads"] != assetsPerChannel {
		t.Fatalf("unexpected per-channel counts: %v", counts)
	}
}

func TestBuildRuleBasedDefaultChannel(t *testing.T) {
	gc := richContext()
	gc.Brief.Channels = nil
	bp := BuildRuleBased(gc, time.Now())

	if len(bp.DraftAssets) != assetsPerChannel {
		t.Fatalf("expected %d assets, got %d", assetsPerChannel, len(bp.DraftAssets))
	}
	for _, asset := range bp.DraftAssets {
		if asset.Platform != DefaultChannel {
			t.Fatalf("expected platform %q, got %q", DefaultChannel, asset.Platform)
		}
	}
}

func TestBuildRuleBasedSupportingSignalsSubset(t *testing.T) {
	gc := richContext()
	bp := BuildRuleBased(gc, time.Now())

	known := gc.SignalIDSet()
	for _, asset := range bp.DraftAssets {
		for _, ref := range asset.SupportingSignals {
			if !known[ref] {
				t.Fatalf("asset references unknown signal %s", ref)
			}
		}
	}
}

func TestBuildRuleBasedAudienceHypotheses(t *testing.T) {
	gc := richContext()
	bp := BuildRuleBased(gc, time.Now())

	if len(bp.AudienceHypotheses) != 2 {
		t.Fatalf("expected one hypothesis per declared audience, got %d", len(bp.AudienceHypotheses))
	}
	if bp.AudienceHypotheses[0].Audience != "startup founders" {
		t.Fatalf("unexpected first audience: %s", bp.AudienceHypotheses[0].Audience)
	}
	if len(bp.AudienceHypotheses[0].PainPoints) == 0 {
		t.Fatalf("expected pain points collected from enrichments")
	}
}

func TestBuildRuleBasedEmptyContext(t *testing.T) {
	gc := &GenerationContext{Campaign: mkCampaign(types.Brief{})}
	gc.Brief = gc.Campaign.ParsedBrief()

	bp := BuildRuleBased(gc, time.Now())

	if bp.Summary == "" {
		t.Fatalf("summary must never be empty")
	}
	if got := bp.Insights.SentimentDistribution["neutral"]; got != 1.0 {
		t.Fatalf("empty enrichments should yield neutral=1.0, got %v", got)
	}
	if len(bp.DraftAssets) != assetsPerChannel {
		t.Fatalf("empty context still owes %d default-channel assets, got %d", assetsPerChannel, len(bp.DraftAssets))
	}
}

func TestSentimentDistributionBuckets(t *testing.T) {
	enrichments := []*types.SignalEnrichment{
		mkEnrichment(uuid.New(), nil, floatPtr(0.2), nil),  // boundary, positive
		mkEnrichment(uuid.New(), nil, floatPtr(-0.2), nil), // boundary, negative
		mkEnrichment(uuid.New(), nil, floatPtr(0.19), nil), // neutral
		mkEnrichment(uuid.New(), nil, nil, nil),            // missing sentiment, neutral
	}
	dist := sentimentDistribution(enrichments)

	if dist["positive"] != 0.25 || dist["negative"] != 0.25 || dist["neutral"] != 0.5 {
		t.Fatalf("unexpected distribution: %v", dist)
	}
}

func TestTopEntitiesFrequencyOrder(t *testing.T) {
	enrichments := []*types.SignalEnrichment{
		mkEnrichment(uuid.New(), []string{"Alpha", "Beta"}, nil, nil),
		mkEnrichment(uuid.New(), []string{"Beta"}, nil, nil),
		mkEnrichment(uuid.New(), []string{"Beta", "Gamma"}, nil, nil),
	}
	got := topEntities(enrichments, 8)
	want := []string{"Beta", "Alpha", "Gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	s := "caféteria"
	got := truncate(s, 4)
	if got != "café" {
		t.Fatalf("truncate(%q, 4) = %q", s, got)
	}
	if truncate("short", 10) != "short" {
		t.Fatalf("strings under the limit must pass through")
	}
}

func TestBuildPreviewLimits(t *testing.T) {
	gc := richContext()
	bp := BuildRuleBased(gc, time.Now())
	preview := BuildPreview(bp)

	if preview.Summary != bp.Summary {
		t.Fatalf("preview summary should mirror the blueprint summary")
	}
	if len(preview.MessagingPillars) > 3 {
		t.Fatalf("preview pillars capped at 3, got %d", len(preview.MessagingPillars))
	}
	if len(preview.DraftAssets) != 3 {
		t.Fatalf("preview assets capped at 3, got %d", len(preview.DraftAssets))
	}
}

func TestBuildSummaryNoSignals(t *testing.T) {
	gc := &GenerationContext{Campaign: mkCampaign(types.Brief{Goal: "grow"})}
	gc.Brief = gc.Campaign.ParsedBrief()

	summary := buildSummary(gc)
	if summary == "" {
		t.Fatalf("expected a summary")
	}
	if !strings.Contains(summary, "Spring Launch") {
		t.Fatalf("summary should name the campaign: %q", summary)
	}
}
