package export

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint/steps"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/apierr"
)

func exportFixture() (*types.Campaign, steps.Blueprint) {
	brief, _ := json.Marshal(types.Brief{Goal: "increase demo signups"})
	campaign := &types.Campaign{
		ID:    uuid.New(),
		Name:  "Spring Launch",
		Brief: datatypes.JSON(brief),
	}
	bp := steps.Blueprint{
		Summary: "Synthesized summary.",
		AudienceHypotheses: []steps.AudienceHypothesis{
			{Audience: "startup founders", LanguageNotes: []string{"just works"}},
		},
		MessagingPillars: []steps.MessagingPillar{
			{Pillar: "crm for startups", KeyMessages: []string{"msg"}, SupportingURLs: []string{"https://example.com"}},
		},
		DraftAssets: []steps.DraftAsset{
			{
				Headline:      strings.Repeat("H", 60),
				PrimaryText:   "",
				CTA:           "Learn More",
				CreativeHooks: []string{"https://example.com/landing"},
			},
		},
	}
	return campaign, bp
}

func TestAdapterForUnknownPlatform(t *testing.T) {
	if _, err := AdapterFor("tiktok"); err == nil {
		t.Fatalf("unknown platform must be rejected")
	}
	for _, platform := range SupportedPlatforms() {
		adapter, err := AdapterFor(platform)
		if err != nil {
			t.Fatalf("platform %s: %v", platform, err)
		}
		if adapter.Platform() != platform {
			t.Fatalf("adapter self-reports %q for %q", adapter.Platform(), platform)
		}
	}
}

func TestExportRejectsUnknownPlatform(t *testing.T) {
	_, err := New(UsecasesDeps{}).Export(context.Background(), ExportInput{Platform: "tiktok"})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("unknown platform must map to an api error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "unsupported_platform" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestMetaAdapterPayload(t *testing.T) {
	campaign, bp := exportFixture()
	payload := metaAdapter{}.BuildPayload(campaign, bp)

	if payload["name"] != "Spring Launch - Meta Campaign" {
		t.Fatalf("unexpected name: %v", payload["name"])
	}
	if payload["objective"] != "increase demo signups" {
		t.Fatalf("unexpected objective: %v", payload["objective"])
	}
	audiences, ok := payload["target_audiences"].([]string)
	if !ok || len(audiences) != 1 || audiences[0] != "startup founders" {
		t.Fatalf("unexpected audiences: %v", payload["target_audiences"])
	}
}

func TestGoogleAdapterPayload(t *testing.T) {
	campaign, bp := exportFixture()
	payload := googleAdapter{}.BuildPayload(campaign, bp)

	if payload["campaignName"] != "Spring Launch - Search" {
		t.Fatalf("unexpected name: %v", payload["campaignName"])
	}

	adGroups := payload["adGroups"].([]map[string]any)
	if len(adGroups) != 1 {
		t.Fatalf("expected one ad group, got %d", len(adGroups))
	}
	name := adGroups[0]["name"].(string)
	if len(name) != 50 {
		t.Fatalf("ad group name should be truncated to 50 chars, got %d", len(name))
	}
	ad := adGroups[0]["ads"].([]map[string]any)[0]
	if ad["description"] != bp.Summary {
		t.Fatalf("empty primary text should fall back to the summary, got %v", ad["description"])
	}
	if ad["finalUrl"] != "https://example.com/landing" {
		t.Fatalf("unexpected finalUrl: %v", ad["finalUrl"])
	}
}

func TestLinkedinAdapterPayload(t *testing.T) {
	campaign, bp := exportFixture()
	payload := linkedinAdapter{}.BuildPayload(campaign, bp)

	if payload["campaignName"] != "Spring Launch - LinkedIn" {
		t.Fatalf("unexpected name: %v", payload["campaignName"])
	}
	targeting := payload["audienceTargeting"].(map[string]any)
	notes := targeting["languageNotes"].([]string)
	if len(notes) != 1 || notes[0] != "just works" {
		t.Fatalf("unexpected language notes: %v", notes)
	}
	if payload["cta"] != "Learn More" {
		t.Fatalf("unexpected cta: %v", payload["cta"])
	}
}
