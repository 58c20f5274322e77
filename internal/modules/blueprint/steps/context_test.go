package steps

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gorm.io/datatypes"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
)

func TestAssembleContextFiltersAndDedupes(t *testing.T) {
	f := newGenerateFixture(t, nil)
	ctx := context.Background()

	// Below the relevance floor used in the assembly call.
	if _, err := f.deps.Signals.Create(ctx, nil, []*types.Signal{{
		CampaignID:     f.campaign.ID,
		Source:         "reddit_organic",
		SearchMethod:   "query_search",
		Query:          "low relevance noise",
		Evidence:       datatypes.JSON([]byte(`[]`)),
		RelevanceScore: 0.1,
	}}); err != nil {
		t.Fatalf("create signal: %v", err)
	}

	insights, _ := json.Marshal(map[string]any{"summary": "market overview"})
	now := time.Now()
	for _, spec := range []struct {
		analysisType string
		status       string
	}{
		{types.AnalysisTypeComprehensive, types.AnalysisStatusCompleted},
		{types.AnalysisTypeComprehensive, types.AnalysisStatusCompleted},
		{types.AnalysisTypeAudience, types.AnalysisStatusCompleted},
		{types.AnalysisTypeMessaging, types.AnalysisStatusPending},
	} {
		if _, err := f.deps.Analyses.Create(ctx, nil, &types.SignalAnalysis{
			CampaignID:   f.campaign.ID,
			AnalysisType: spec.analysisType,
			Status:       spec.status,
			Insights:     datatypes.JSON(insights),
			CompletedAt:  &now,
		}); err != nil {
			t.Fatalf("create analysis: %v", err)
		}
	}

	gc, err := AssembleContext(ctx, AssembleContextDeps{
		DB:              f.deps.DB,
		Log:             f.deps.Log,
		Campaigns:       f.deps.Campaigns,
		Signals:         f.deps.Signals,
		Enrichments:     f.deps.Enrichments,
		Analyses:        f.deps.Analyses,
		StrategicBriefs: f.deps.StrategicBriefs,
	}, AssembleContextInput{
		CampaignID:     f.campaign.ID,
		WorkspaceID:    f.workspaceID,
		RelevanceFloor: 0.5,
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if len(gc.Signals) != 1 {
		t.Fatalf("expected low-relevance signal filtered out, got %d signals", len(gc.Signals))
	}
	if gc.Signals[0].Query != "crm for startups" {
		t.Fatalf("unexpected surviving signal: %q", gc.Signals[0].Query)
	}

	seen := map[string]int{}
	for _, a := range gc.Analyses {
		if a.Status != types.AnalysisStatusCompleted {
			t.Fatalf("pending analysis leaked into the context")
		}
		seen[a.AnalysisType]++
	}
	if seen[types.AnalysisTypeComprehensive] != 1 {
		t.Fatalf("duplicate analysis types must collapse to one, got %d", seen[types.AnalysisTypeComprehensive])
	}
	if seen[types.AnalysisTypeAudience] != 1 {
		t.Fatalf("expected the audience analysis in the context")
	}

	if gc.StrategicBrief != nil {
		t.Fatalf("no strategic brief exists yet; context must carry nil")
	}
	if gc.Brief.Goal != "increase demo signups" {
		t.Fatalf("brief not parsed: %+v", gc.Brief)
	}
}

func TestDedupeAnalysesByTypeKeepsFirst(t *testing.T) {
	newest := &types.SignalAnalysis{AnalysisType: "comprehensive", LLMModel: "newer"}
	older := &types.SignalAnalysis{AnalysisType: "comprehensive", LLMModel: "older"}
	other := &types.SignalAnalysis{AnalysisType: "audience"}

	out := dedupeAnalysesByType([]*types.SignalAnalysis{newest, older, other})
	if len(out) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(out))
	}
	if out[0].LLMModel != "newer" {
		t.Fatalf("first occurrence (newest) must win, got %q", out[0].LLMModel)
	}
}
