package strategicbrief

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos/testutil"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/apierr"
)

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) Complete(_ context.Context, _ llm.CompletionRequest) (llm.CompletionResult, error) {
	if s.err != nil {
		return llm.CompletionResult{}, s.err
	}
	return llm.CompletionResult{Text: s.text, Provider: "fake", Model: "fake-1", TokensUsed: 512}, nil
}

func (s *stubLLM) Provider() string { return "fake" }
func (s *stubLLM) Model() string    { return "fake-1" }

type briefFixture struct {
	uc Usecases

	workspaceID uuid.UUID
	campaign    *types.Campaign

	analyses repos.SignalAnalysisRepo
	briefs   repos.StrategicBriefRepo
}

func newBriefFixture(t *testing.T, client llm.Client) *briefFixture {
	t.Helper()

	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	campaigns := repos.NewCampaignRepo(gdb, log)
	analyses := repos.NewSignalAnalysisRepo(gdb, log)
	briefs := repos.NewStrategicBriefRepo(gdb, log)

	uc := New(UsecasesDeps{
		DB:              gdb,
		Log:             log,
		LLM:             client,
		Campaigns:       campaigns,
		Signals:         repos.NewSignalRepo(gdb, log),
		Analyses:        analyses,
		StrategicBriefs: briefs,
		MaxTokens:       2000,
	})

	workspaceID := uuid.New()
	brief, _ := json.Marshal(types.Brief{Goal: "increase demo signups", Channels: []string{"meta"}})
	campaign, err := campaigns.Create(context.Background(), nil, &types.Campaign{
		WorkspaceID: workspaceID,
		Name:        "Spring Launch",
		Status:      types.CampaignStatusDraft,
		Brief:       datatypes.JSON(brief),
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	return &briefFixture{uc: uc, workspaceID: workspaceID, campaign: campaign, analyses: analyses, briefs: briefs}
}

func (f *briefFixture) addCompletedAnalysis(t *testing.T) {
	t.Helper()

	insights, _ := json.Marshal(map[string]any{
		"summary":      "market overview",
		"key_insights": []string{"founders distrust bloated CRMs"},
	})
	now := time.Now()
	if _, err := f.analyses.Create(context.Background(), nil, &types.SignalAnalysis{
		CampaignID:   f.campaign.ID,
		AnalysisType: types.AnalysisTypeComprehensive,
		Status:       types.AnalysisStatusCompleted,
		Insights:     datatypes.JSON(insights),
		CompletedAt:  &now,
	}); err != nil {
		t.Fatalf("create analysis: %v", err)
	}
}

const briefMarkdown = `## Executive Summary
Short and punchy.

## Market Context
Crowded category, underserved segment.

## Success Metrics
Demo signups per week.`

func TestGenerateRequiresCompletedAnalyses(t *testing.T) {
	f := newBriefFixture(t, &stubLLM{text: briefMarkdown})

	_, err := f.uc.Generate(context.Background(), GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
	})
	if err == nil || !strings.Contains(err.Error(), "no completed signal analyses") {
		t.Fatalf("expected the no-analyses error, got %v", err)
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 || apiErr.Code != "no_completed_analyses" {
		t.Fatalf("precondition failure must carry a 400 api error, got %v", err)
	}
}

func TestGenerateRequiresLLM(t *testing.T) {
	f := newBriefFixture(t, nil)
	f.addCompletedAnalysis(t)

	_, err := f.uc.Generate(context.Background(), GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
	})
	if err == nil || !strings.Contains(err.Error(), "LLM provider") {
		t.Fatalf("expected the missing-provider error, got %v", err)
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != "llm_not_configured" {
		t.Fatalf("missing provider must carry a coded api error, got %v", err)
	}
}

func TestGeneratePersistsFailedBriefOnLLMError(t *testing.T) {
	f := newBriefFixture(t, &stubLLM{err: errors.New("provider down")})
	f.addCompletedAnalysis(t)

	_, err := f.uc.Generate(context.Background(), GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: f.workspaceID,
	})
	if err == nil {
		t.Fatalf("LLM failure must surface as an error")
	}

	stored, err := f.briefs.GetLatestByCampaignID(context.Background(), nil, f.campaign.ID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if stored == nil || stored.Status != "failed" {
		t.Fatalf("a failed brief row must still be persisted, got %+v", stored)
	}
	if !strings.Contains(stored.ErrorMessage, "provider down") {
		t.Fatalf("failure cause not recorded: %q", stored.ErrorMessage)
	}
}

func TestGenerateVersionsAndParsesSections(t *testing.T) {
	f := newBriefFixture(t, &stubLLM{text: briefMarkdown})
	f.addCompletedAnalysis(t)

	in := GenerateInput{
		CampaignID:         f.campaign.ID,
		WorkspaceID:        f.workspaceID,
		CustomInstructions: "keep it terse",
	}

	first, err := f.uc.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := f.uc.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if first.Version != 1 || second.Version != 2 {
		t.Fatalf("expected versions 1 and 2, got %d and %d", first.Version, second.Version)
	}

	if first.Status != "completed" || first.LLMProvider != "fake" {
		t.Fatalf("unexpected brief row: %+v", first)
	}
	if first.TokensUsed == nil || *first.TokensUsed != 512 {
		t.Fatalf("token usage not recorded: %v", first.TokensUsed)
	}
	if first.CustomInstructions != "keep it terse" {
		t.Fatalf("custom instructions not stored")
	}

	content := first.ContentMap()
	if content["full_text"] != briefMarkdown {
		t.Fatalf("full text not stored verbatim")
	}
	sections, ok := content["sections"].(map[string]any)
	if !ok {
		t.Fatalf("sections missing from content: %v", content)
	}
	if sections["Market Context"] != "Crowded category, underserved segment." {
		t.Fatalf("unexpected section body: %v", sections["Market Context"])
	}
}

func TestGenerateRejectsForeignWorkspace(t *testing.T) {
	f := newBriefFixture(t, &stubLLM{text: briefMarkdown})

	_, err := f.uc.Generate(context.Background(), GenerateInput{
		CampaignID:  f.campaign.ID,
		WorkspaceID: uuid.New(),
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("foreign workspace must look like a missing campaign, got %v", err)
	}
}

func TestGetLatestWithoutBrief(t *testing.T) {
	f := newBriefFixture(t, nil)

	brief, err := f.uc.GetLatest(context.Background(), f.campaign.ID, f.workspaceID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if brief != nil {
		t.Fatalf("expected no brief yet, got %+v", brief)
	}
}

func TestBuildPromptHandlesBlankAnalysisType(t *testing.T) {
	campaign := &types.Campaign{Name: "Spring Launch"}
	analyses := []*types.SignalAnalysis{
		{AnalysisType: ""},
		{AnalysisType: "audience"},
	}

	prompt := buildPrompt(campaign, nil, analyses, "")
	if !strings.Contains(prompt, "## Audience Analysis") {
		t.Fatalf("analysis headers missing from prompt:\n%s", prompt)
	}
}

func TestParseSections(t *testing.T) {
	text := "preamble ignored\n# PAGE 1\nintro\n## Executive Summary\nline one\nline two\n\n## Success Metrics\nsignups"
	sections := parseSections(text)

	if sections["Executive Summary"] != "line one\nline two" {
		t.Fatalf("unexpected section: %q", sections["Executive Summary"])
	}
	if sections["Success Metrics"] != "signups" {
		t.Fatalf("unexpected section: %q", sections["Success Metrics"])
	}
	if sections["PAGE 1"] != "intro" {
		t.Fatalf("page headers should start their own section: %q", sections["PAGE 1"])
	}
	if _, ok := sections[""]; ok {
		t.Fatalf("preamble before the first header must be dropped")
	}
}
