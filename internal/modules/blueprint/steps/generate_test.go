package steps

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos/testutil"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
)

type generateFixture struct {
	db   *gorm.DB
	deps GenerateDeps

	workspaceID uuid.UUID
	campaign    *types.Campaign
}

func newGenerateFixture(t *testing.T, client llm.Client) *generateFixture {
	t.Helper()

	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	deps := GenerateDeps{
		DB:              gdb,
		Log:             log,
		LLM:             client,
		Campaigns:       repos.NewCampaignRepo(gdb, log),
		Signals:         repos.NewSignalRepo(gdb, log),
		Enrichments:     repos.NewEnrichmentRepo(gdb, log),
		Analyses:        repos.NewSignalAnalysisRepo(gdb, log),
		StrategicBriefs: repos.NewStrategicBriefRepo(gdb, log),
		Blueprints:      repos.NewBlueprintRepo(gdb, log),
		Config:          GenerateConfig{UseLLM: true, MaxTokens: 1000},
	}

	workspaceID := uuid.New()
	brief, _ := json.Marshal(types.Brief{
		Goal:      "increase demo signups",
		Audiences: []string{"startup founders"},
		Offer:     "Acme CRM",
		Channels:  []string{"meta"},
	})
	campaign, err := deps.Campaigns.Create(context.Background(), nil, &types.Campaign{
		WorkspaceID: workspaceID,
		Name:        "Spring Launch",
		Status:      types.CampaignStatusDraft,
		Brief:       datatypes.JSON(brief),
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	evidence, _ := json.Marshal([]types.EvidenceItem{
		{URL: "https://example.com", Title: "CRM pain", Snippet: "Teams outgrow spreadsheets fast."},
	})
	if _, err := deps.Signals.Create(context.Background(), nil, []*types.Signal{{
		CampaignID:     campaign.ID,
		Source:         "serp_organic",
		SearchMethod:   "query_search",
		Query:          "crm for startups",
		Evidence:       datatypes.JSON(evidence),
		RelevanceScore: 0.8,
	}}); err != nil {
		t.Fatalf("create signal: %v", err)
	}

	return &generateFixture{db: gdb, deps: deps, workspaceID: workspaceID, campaign: campaign}
}

func TestGenerateFallsBackOnLLMFailure(t *testing.T) {
	f := newGenerateFixture(t, &fakeLLM{err: errors.New("provider down")})

	out, err := Generate(context.Background(), f.deps, GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
		Persist:     false,
	})
	if err != nil {
		t.Fatalf("an LLM failure must not fail the call: %v", err)
	}

	meta := out.Blueprint.Metadata
	if meta.GenerationMethod != "rule_based" || meta.LLMUsed {
		t.Fatalf("expected rule-based fallback, got %+v", meta)
	}
	if meta.LLMError == "" {
		t.Fatalf("the LLM failure must be recorded in metadata")
	}
	if meta.RuleBasedPreview == nil {
		t.Fatalf("rule_based_preview must always be attached")
	}
}

func TestGeneratePersistsIncrementingVersions(t *testing.T) {
	f := newGenerateFixture(t, nil)
	useLLM := false

	in := GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
		Persist:     true,
		UseLLM:      &useLLM,
	}

	first, err := Generate(context.Background(), f.deps, in)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := Generate(context.Background(), f.deps, in)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	if first.Artifact == nil || second.Artifact == nil {
		t.Fatalf("persisted runs must return artifacts")
	}
	if first.Artifact.Version != 1 || second.Artifact.Version != 2 {
		t.Fatalf("expected versions 1 and 2, got %d and %d", first.Artifact.Version, second.Artifact.Version)
	}
	if first.Blueprint.ArtifactID == nil || *first.Blueprint.ArtifactID != first.Artifact.ID {
		t.Fatalf("blueprint must carry its artifact id")
	}
	if !first.Blueprint.Metadata.Persisted {
		t.Fatalf("persisted flag not set")
	}

	var stored Blueprint
	if err := json.Unmarshal(first.Artifact.Blueprint, &stored); err != nil {
		t.Fatalf("stored artifact is not a valid blueprint: %v", err)
	}
	if stored.Summary != first.Blueprint.Summary {
		t.Fatalf("stored summary mismatch")
	}
}

func TestGenerateWithoutPersistLeavesNoArtifact(t *testing.T) {
	f := newGenerateFixture(t, nil)
	useLLM := false

	out, err := Generate(context.Background(), f.deps, GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
		Persist:     false,
		UseLLM:      &useLLM,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Artifact != nil || out.Blueprint.Metadata.Persisted {
		t.Fatalf("non-persisted run must not write an artifact")
	}

	artifacts, err := f.deps.Blueprints.ListByCampaignID(context.Background(), nil, f.campaign.ID)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(artifacts) != 0 {
		t.Fatalf("expected no stored artifacts, got %d", len(artifacts))
	}
}

func TestGenerateTopsUpChannelCoverage(t *testing.T) {
	// The model returns a single asset for the declared channel; coverage
	// enforcement owes four more.
	payload := `{
		"summary": "LLM summary",
		"draft_assets": [
			{"platform": "meta", "objective": "conversion", "headline": "One", "primary_text": "Only one."}
		]
	}`
	f := newGenerateFixture(t, &fakeLLM{text: payload})

	out, err := Generate(context.Background(), f.deps, GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if out.Blueprint.Metadata.GenerationMethod != "llm" {
		t.Fatalf("expected the LLM result to win: %+v", out.Blueprint.Metadata)
	}
	if got := out.Blueprint.Metadata.AssetCounts["meta"]; got != assetsPerChannel {
		t.Fatalf("expected %d meta assets after top-up, got %d", assetsPerChannel, got)
	}
}

func TestGenerateRejectsForeignWorkspace(t *testing.T) {
	f := newGenerateFixture(t, nil)

	_, err := Generate(context.Background(), f.deps, GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: uuid.New(),
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("foreign workspace must look like a missing campaign, got %v", err)
	}
}
