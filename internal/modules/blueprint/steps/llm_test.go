package steps

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error) {
	if f.err != nil {
		return llm.CompletionResult{}, f.err
	}
	return llm.CompletionResult{Text: f.text, Provider: "fake", Model: "fake-1", TokensUsed: 321}, nil
}
func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-1" }

func llmDeps(client llm.Client) GenerateLLMDeps {
	return GenerateLLMDeps{Client: client, Log: logger.NewNop(), MaxTokens: 1000}
}

func minimalPayload(knownSignal, unknownSignal string) string {
	return fmt.Sprintf(`{
		"summary": "LLM summary",
		"draft_assets": [
			{
				"platform": "linkedin",
				"objective": "conversion",
				"headline": "Try Acme",
				"primary_text": "Acme fixes CRM pain.",
				"supporting_signals": [%q, %q]
			}
		]
	}`, knownSignal, unknownSignal)
}

func TestGenerateLLMNoClient(t *testing.T) {
	gc := richContext()
	ruleBased := BuildRuleBased(gc, time.Now())

	_, err := GenerateLLM(context.Background(), llmDeps(nil), gc, ruleBased, "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestGenerateLLMProviderFailure(t *testing.T) {
	gc := richContext()
	ruleBased := BuildRuleBased(gc, time.Now())

	_, err := GenerateLLM(context.Background(), llmDeps(&fakeLLM{err: errors.New("boom")}), gc, ruleBased, "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestGenerateLLMFenceRepair(t *testing.T) {
	gc := richContext()
	ruleBased := BuildRuleBased(gc, time.Now())
	known := gc.Signals[0].ID.String()

	fenced := "```json\n" + minimalPayload(known, uuid.New().String()) + "\n```"
	bp, err := GenerateLLM(context.Background(), llmDeps(&fakeLLM{text: fenced}), gc, ruleBased, "")
	if err != nil {
		t.Fatalf("fenced output should parse after repair: %v", err)
	}
	if bp.Summary != "LLM summary" {
		t.Fatalf("unexpected summary: %q", bp.Summary)
	}
}

func TestGenerateLLMMissingSummary(t *testing.T) {
	gc := richContext()
	ruleBased := BuildRuleBased(gc, time.Now())

	text := `{"summary": "", "draft_assets": [{"platform": "meta", "headline": "x", "primary_text": "y"}]}`
	_, err := GenerateLLM(context.Background(), llmDeps(&fakeLLM{text: text}), gc, ruleBased, "")
	if err == nil {
		t.Fatalf("empty summary must fail generation")
	}
}

func TestGenerateLLMMissingAssets(t *testing.T) {
	gc := richContext()
	ruleBased := BuildRuleBased(gc, time.Now())

	text := `{"summary": "ok", "draft_assets": []}`
	_, err := GenerateLLM(context.Background(), llmDeps(&fakeLLM{text: text}), gc, ruleBased, "")
	if err == nil {
		t.Fatalf("empty draft_assets must fail generation")
	}
}

func TestGenerateLLMNormalization(t *testing.T) {
	gc := richContext()
	ruleBased := BuildRuleBased(gc, time.Now())
	known := gc.Signals[0].ID.String()
	unknown := uuid.New().String()

	bp, err := GenerateLLM(context.Background(), llmDeps(&fakeLLM{text: minimalPayload(known, unknown)}), gc, ruleBased, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	asset := bp.DraftAssets[0]
	if asset.ID == "" {
		t.Fatalf("missing asset id should be filled in")
	}
	if asset.CTA != "Learn More" {
		t.Fatalf("missing cta should default to Learn More, got %q", asset.CTA)
	}
	if len(asset.Variations) != 1 {
		t.Fatalf("asset should receive a default variation, got %d", len(asset.Variations))
	}
	if len(asset.SupportingSignals) != 1 || asset.SupportingSignals[0] != known {
		t.Fatalf("unknown signal refs should be dropped: %v", asset.SupportingSignals)
	}

	// Sections the model omitted fall back to the rule-based baseline.
	if len(bp.ValuePropositions) != len(ruleBased.ValuePropositions) {
		t.Fatalf("omitted value propositions should fall back to baseline")
	}
	if len(bp.Insights.TopEntities) != len(ruleBased.Insights.TopEntities) {
		t.Fatalf("omitted insights should fall back to baseline")
	}

	if !bp.Metadata.LLMUsed || bp.Metadata.GenerationMethod != "llm" {
		t.Fatalf("unexpected metadata: %+v", bp.Metadata)
	}
	if bp.Metadata.LLMProvider != "fake" || bp.Metadata.TokensUsed != 321 {
		t.Fatalf("provider accounting missing: %+v", bp.Metadata)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Fatalf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
