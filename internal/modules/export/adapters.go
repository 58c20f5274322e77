package export

import (
	"fmt"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint/steps"
)

// Adapter shapes a blueprint into one ad platform's payload format. Payloads
// are dry-run artifacts; nothing is pushed to the platforms.
type Adapter interface {
	Platform() string
	BuildPayload(campaign *types.Campaign, bp steps.Blueprint) map[string]any
}

var adapters = map[string]Adapter{
	"meta":     metaAdapter{},
	"google":   googleAdapter{},
	"linkedin": linkedinAdapter{},
}

func AdapterFor(platform string) (Adapter, error) {
	adapter, ok := adapters[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported export platform: %s", platform)
	}
	return adapter, nil
}

func SupportedPlatforms() []string {
	return []string{"google", "linkedin", "meta"}
}

type metaAdapter struct{}

func (metaAdapter) Platform() string { return "meta" }

func (metaAdapter) BuildPayload(campaign *types.Campaign, bp steps.Blueprint) map[string]any {
	brief := campaign.ParsedBrief()

	audiences := make([]string, 0, len(bp.AudienceHypotheses))
	for _, h := range bp.AudienceHypotheses {
		audiences = append(audiences, h.Audience)
	}

	creativeBriefs := make([]map[string]any, 0, len(bp.MessagingPillars))
	for _, pillar := range bp.MessagingPillars {
		creativeBriefs = append(creativeBriefs, map[string]any{
			"pillar":          pillar.Pillar,
			"key_messages":    pillar.KeyMessages,
			"supporting_urls": pillar.SupportingURLs,
		})
	}

	assets := make([]map[string]any, 0, len(bp.DraftAssets))
	for _, asset := range bp.DraftAssets {
		assets = append(assets, map[string]any{
			"headline":       asset.Headline,
			"primary_text":   asset.PrimaryText,
			"cta":            asset.CTA,
			"audience_focus": asset.AudienceFocus,
			"creative_hooks": asset.CreativeHooks,
		})
	}

	return map[string]any{
		"name":             campaign.Name + " - Meta Campaign",
		"objective":        brief.Goal,
		"target_audiences": audiences,
		"creative_briefs":  creativeBriefs,
		"assets":           assets,
	}
}

type googleAdapter struct{}

func (googleAdapter) Platform() string { return "google" }

func (googleAdapter) BuildPayload(campaign *types.Campaign, bp steps.Blueprint) map[string]any {
	brief := campaign.ParsedBrief()

	keywords := make([]string, 0, len(bp.MessagingPillars))
	for _, pillar := range bp.MessagingPillars {
		keywords = append(keywords, pillar.Pillar)
	}

	adGroups := make([]map[string]any, 0, len(bp.DraftAssets))
	for _, asset := range bp.DraftAssets {
		name := asset.Headline
		if len(name) > 50 {
			name = name[:50]
		}
		description := asset.PrimaryText
		if description == "" {
			description = bp.Summary
		}
		var finalURL string
		if len(asset.CreativeHooks) > 0 {
			finalURL = asset.CreativeHooks[0]
		}
		adGroups = append(adGroups, map[string]any{
			"name": name,
			"ads": []map[string]any{
				{
					"headline":    asset.Headline,
					"description": description,
					"finalUrl":    finalURL,
				},
			},
		})
	}

	return map[string]any{
		"campaignName": campaign.Name + " - Search",
		"goal":         brief.Goal,
		"keywords":     keywords,
		"adGroups":     adGroups,
	}
}

type linkedinAdapter struct{}

func (linkedinAdapter) Platform() string { return "linkedin" }

func (linkedinAdapter) BuildPayload(campaign *types.Campaign, bp steps.Blueprint) map[string]any {
	segments := make([]string, 0, len(bp.AudienceHypotheses))
	languageNotes := []string{}
	for _, h := range bp.AudienceHypotheses {
		segments = append(segments, h.Audience)
		languageNotes = append(languageNotes, h.LanguageNotes...)
	}

	themes := make([]map[string]any, 0, len(bp.MessagingPillars))
	for _, pillar := range bp.MessagingPillars {
		themes = append(themes, map[string]any{
			"pillar":       pillar.Pillar,
			"key_messages": pillar.KeyMessages,
		})
	}

	return map[string]any{
		"campaignName": campaign.Name + " - LinkedIn",
		"audienceTargeting": map[string]any{
			"segments":      segments,
			"languageNotes": languageNotes,
		},
		"messageThemes": themes,
		"cta":           "Learn More",
	}
}
