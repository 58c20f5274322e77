package steps

import (
	"strings"
	"testing"
)

func TestTemplatePackHasFiveAssets(t *testing.T) {
	pack := templates()
	if len(pack) != assetsPerChannel {
		t.Fatalf("template pack must carry %d entries, got %d", assetsPerChannel, len(pack))
	}
	for i, tpl := range pack {
		if tpl.Objective == "" || tpl.Headline == "" || tpl.PrimaryText == "" {
			t.Fatalf("template %d incomplete: %+v", i, tpl)
		}
	}
}

func TestTemplateRenderInterpolates(t *testing.T) {
	tpl := assetTemplate{
		Objective:   "conversion",
		Headline:    "Make progress on {goal} with {offer}",
		PrimaryText: "See how {entity} plays on {channel}.",
	}
	headline, primaryText, cta := tpl.render(map[string]string{
		"goal":    "demo signups",
		"offer":   "Acme CRM",
		"entity":  "HubSpot",
		"channel": "google ads",
	})

	if headline != "Make progress on demo signups with Acme CRM" {
		t.Fatalf("unexpected headline: %q", headline)
	}
	if !strings.Contains(primaryText, "HubSpot") || !strings.Contains(primaryText, "google ads") {
		t.Fatalf("unexpected primary text: %q", primaryText)
	}
	if cta != "Learn More" {
		t.Fatalf("empty template cta should default to Learn More, got %q", cta)
	}
}
