package steps

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
)

const (
	sentimentPositiveFloor = 0.2
	sentimentNegativeCeil  = -0.2

	assetsPerChannel = 5
)

// BuildRuleBased derives a blueprint from the context without any AI call.
// Pure and deterministic: identical context and timestamp produce identical
// output, including asset IDs. Never fails, worst case is empty sections.
func BuildRuleBased(gc *GenerationContext, generatedAt time.Time) Blueprint {
	hypotheses := buildAudienceHypotheses(gc)

	bp := Blueprint{
		CampaignID:         gc.Campaign.ID,
		GeneratedAt:        generatedAt.UTC(),
		Summary:            buildSummary(gc),
		Insights:           buildInsights(gc),
		AudienceHypotheses: hypotheses,
		ValuePropositions:  buildValueProps(gc),
		MessagingPillars:   buildMessagingPillars(gc),
		NextActions:        buildNextActions(gc),
		Metadata: Metadata{
			GenerationMethod: "rule_based",
			LLMUsed:          false,
		},
	}

	assets := make([]DraftAsset, 0, len(gc.Channels())*assetsPerChannel)
	for _, channel := range gc.Channels() {
		assets = append(assets, BuildChannelAssets(gc, channel, assetsPerChannel, hypotheses)...)
	}
	bp.DraftAssets = assets
	return bp
}

// BuildPreview condenses a rule-based blueprint into the comparison baseline
// attached to every generation result.
func BuildPreview(bp Blueprint) *Preview {
	preview := &Preview{
		Summary:          bp.Summary,
		MessagingPillars: bp.MessagingPillars,
		DraftAssets:      []PreviewAsset{},
	}
	if len(preview.MessagingPillars) > 3 {
		preview.MessagingPillars = preview.MessagingPillars[:3]
	}
	for _, asset := range bp.DraftAssets {
		if len(preview.DraftAssets) >= 3 {
			break
		}
		preview.DraftAssets = append(preview.DraftAssets, PreviewAsset{
			Platform:      asset.Platform,
			Headline:      asset.Headline,
			AudienceFocus: asset.AudienceFocus,
		})
	}
	return preview
}

func buildSummary(gc *GenerationContext) string {
	if len(gc.Signals) == 0 {
		return fmt.Sprintf(
			"No signals collected yet for %s. Run signal collection to populate blueprint.",
			gc.Campaign.Name,
		)
	}
	sources := map[string]bool{}
	for _, s := range gc.Signals {
		if len(sources) >= 5 {
			break
		}
		sources[s.Source] = true
	}
	sorted := make([]string, 0, len(sources))
	for source := range sources {
		sorted = append(sorted, source)
	}
	sort.Strings(sorted)

	goal := gc.Brief.Goal
	if goal == "" {
		goal = "the campaign objective"
	}
	return fmt.Sprintf(
		"Synthesized %d signals across %s to accelerate work on %s.",
		len(gc.Signals), strings.Join(sorted, ", "), goal,
	)
}

func buildInsights(gc *GenerationContext) Insights {
	topics := make([]string, 0, 8)
	seenQueries := map[string]bool{}
	for _, s := range gc.Signals {
		query := strings.TrimSpace(s.Query)
		lower := strings.ToLower(query)
		if query != "" && !seenQueries[lower] {
			topics = append(topics, query)
			seenQueries[lower] = true
		}
		if len(topics) >= 8 {
			break
		}
	}

	return Insights{
		TopEntities:           topEntities(gc.Enrichments, 8),
		TrendingTopics:        topics,
		SentimentDistribution: sentimentDistribution(gc.Enrichments),
	}
}

func sentimentDistribution(enrichments []*types.SignalEnrichment) map[string]float64 {
	if len(enrichments) == 0 {
		return map[string]float64{"neutral": 1.0}
	}

	counts := map[string]int{"positive": 0, "neutral": 0, "negative": 0}
	for _, e := range enrichments {
		sentiment := 0.0
		if e.Sentiment != nil {
			sentiment = *e.Sentiment
		}
		switch {
		case sentiment >= sentimentPositiveFloor:
			counts["positive"]++
		case sentiment <= sentimentNegativeCeil:
			counts["negative"]++
		default:
			counts["neutral"]++
		}
	}

	total := float64(len(enrichments))
	dist := make(map[string]float64, 3)
	for bucket, count := range counts {
		dist[bucket] = round3(float64(count) / total)
	}
	return dist
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

func buildAudienceHypotheses(gc *GenerationContext) []AudienceHypothesis {
	hypotheses := make([]AudienceHypothesis, 0, len(gc.Brief.Audiences))
	for _, audience := range gc.Brief.Audiences {
		hypotheses = append(hypotheses, AudienceHypothesis{
			Audience:          audience,
			FocusEntities:     focusEntities(audience, gc.Enrichments),
			PainPoints:        collectFeatures(gc.Enrichments, "pain_points", 6),
			LanguageNotes:     collectFeatures(gc.Enrichments, "language_patterns", 6),
			SupportingSignals: signalsForAudience(audience, gc.Signals),
		})
	}
	return hypotheses
}

func buildValueProps(gc *GenerationContext) []ValueProposition {
	offer := gc.Brief.Offer
	if offer == "" {
		offer = "the product"
	}

	props := make([]ValueProposition, 0, 5)
	for _, e := range gc.Enrichments {
		if len(props) >= 5 {
			break
		}
		primaryPain := "key pains"
		if pains := e.FeatureStrings("primary_pain"); len(pains) > 0 {
			primaryPain = pains[0]
		}
		entities := e.EntityList()
		if len(entities) > 3 {
			entities = entities[:3]
		}
		props = append(props, ValueProposition{
			Statement:          fmt.Sprintf("%s addresses %s with evidence-backed messaging.", offer, primaryPain),
			SupportingEntities: entities,
			TrendScore:         e.TrendScore,
			ProofPoints:        proofPoints(e, gc.Signals),
		})
	}

	if len(props) == 0 {
		props = append(props, ValueProposition{
			Statement:          fmt.Sprintf("%s delivers measurable outcomes against the campaign goal.", offer),
			SupportingEntities: []string{},
			ProofPoints:        []string{},
		})
	}
	return props
}

func buildMessagingPillars(gc *GenerationContext) []MessagingPillar {
	pillars := make([]MessagingPillar, 0, 6)
	for _, s := range gc.Signals {
		if len(pillars) >= 6 {
			break
		}
		evidence := s.ParsedEvidence()

		hooks := make([]string, 0, 3)
		urls := make([]string, 0, 4)
		for _, e := range evidence {
			if len(hooks) < 3 {
				title := e.Title
				if title == "" {
					title = s.Query
				}
				hooks = append(hooks, title)
			}
			if len(urls) < 4 && e.URL != "" {
				urls = append(urls, e.URL)
			}
		}

		messages := cleanSnippets(evidence)
		if len(messages) > 3 {
			messages = messages[:3]
		}

		pillars = append(pillars, MessagingPillar{
			Pillar:         s.Query,
			KeyMessages:    messages,
			SupportingURLs: urls,
			RelevanceScore: s.RelevanceScore,
		})
	}
	return pillars
}

// BuildChannelAssets emits count templated assets for one channel. Asset IDs
// are name-derived from campaign, channel and slot so regeneration over an
// identical context is reproducible. Used both for primary rule-based
// generation and for topping up channel coverage after the LLM path.
func BuildChannelAssets(gc *GenerationContext, channel string, count int, hypotheses []AudienceHypothesis) []DraftAsset {
	offer := gc.Brief.Offer
	if offer == "" {
		offer = "the product"
	}
	goal := gc.Brief.Goal
	if goal == "" {
		goal = "your campaign goals"
	}
	entities := topEntities(gc.Enrichments, 8)

	audienceFocus := make([]string, 0, 3)
	for _, h := range hypotheses {
		if len(audienceFocus) >= 3 {
			break
		}
		audienceFocus = append(audienceFocus, h.Audience)
	}

	pack := templates()
	assets := make([]DraftAsset, 0, count)
	for i := 0; i < count; i++ {
		tpl := pack[i%len(pack)]

		entity := "your market"
		if len(entities) > 0 {
			entity = entities[i%len(entities)]
		}

		headline, primaryText, cta := tpl.render(map[string]string{
			"offer":   offer,
			"goal":    goal,
			"entity":  entity,
			"channel": channelLabel(channel),
		})

		supporting := []string{}
		hooks := []string{}
		if len(gc.Signals) > 0 {
			signal := gc.Signals[i%len(gc.Signals)]
			supporting = append(supporting, signal.ID.String())
			for _, e := range signal.ParsedEvidence() {
				if len(hooks) >= 3 {
					break
				}
				title := e.Title
				if title == "" {
					title = signal.Query
				}
				hooks = append(hooks, title)
			}
		}

		assets = append(assets, DraftAsset{
			ID:                assetID(gc.Campaign.ID, channel, i),
			Platform:          channel,
			Objective:         tpl.Objective,
			AudienceFocus:     audienceFocus,
			Headline:          truncate(headline, 90),
			PrimaryText:       truncate(primaryText, 240),
			CTA:               cta,
			SupportingSignals: supporting,
			CreativeHooks:     hooks,
			Variations:        buildVariations(truncate(headline, 90), truncate(primaryText, 240)),
		})
	}
	return assets
}

func assetID(campaignID uuid.UUID, channel string, slot int) string {
	name := fmt.Sprintf("%s/%s/%d", campaignID, channel, slot)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func buildVariations(headline, primaryText string) []AssetVariation {
	truncated := primaryText
	if len(truncated) > 200 {
		truncated = truncated[:200] + "..."
	}
	return []AssetVariation{
		{Headline: headline, PrimaryText: primaryText, CTA: "Get Started"},
		{
			Headline:    truncate(headline, 70) + " | Limited Offer",
			PrimaryText: truncated + " Act today to stay ahead.",
			CTA:         "See How",
		},
	}
}

func buildNextActions(gc *GenerationContext) []string {
	actions := []string{}
	if len(gc.Signals) == 0 {
		actions = append(actions, "Run signal collection to gather competitive and audience intelligence.")
	}
	if len(gc.Enrichments) == 0 {
		actions = append(actions, "Enrich signals to unlock audience hypotheses and messaging themes.")
	} else {
		actions = append(actions, "Review enriched entities to align creative briefs with audience language.")
	}
	if len(gc.Brief.Competitors) > 0 {
		actions = append(actions, "Sharpen competitive positioning against "+strings.Join(gc.Brief.Competitors, ", ")+".")
	}
	actions = append(actions,
		"Select two priority pillars and produce long-form copy drafts.",
		"Validate asset hooks with stakeholders before export.",
	)
	return actions
}

func channelLabel(channel string) string {
	return strings.ReplaceAll(channel, "_", " ")
}

// topEntities ranks enrichment entities by frequency. Ties break on first
// appearance so the ordering is stable.
func topEntities(enrichments []*types.SignalEnrichment, limit int) []string {
	counts := map[string]int{}
	order := []string{}
	for _, e := range enrichments {
		for _, entity := range e.EntityList() {
			if counts[entity] == 0 {
				order = append(order, entity)
			}
			counts[entity]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func collectFeatures(enrichments []*types.SignalEnrichment, key string, limit int) []string {
	values := []string{}
	seen := map[string]bool{}
	for _, e := range enrichments {
		for _, v := range e.FeatureStrings(key) {
			if seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}
	if len(values) > limit {
		values = values[:limit]
	}
	return values
}

func focusEntities(audience string, enrichments []*types.SignalEnrichment) []string {
	tokens := audienceTokens(audience)
	entities := []string{}
	seen := map[string]bool{}
	for _, e := range enrichments {
		for _, entity := range e.EntityList() {
			lower := strings.ToLower(entity)
			for _, token := range tokens {
				if strings.Contains(lower, token) && !seen[entity] {
					seen[entity] = true
					entities = append(entities, entity)
					break
				}
			}
		}
	}
	if len(entities) > 5 {
		entities = entities[:5]
	}
	return entities
}

func signalsForAudience(audience string, signals []*types.Signal) []string {
	tokens := audienceTokens(audience)
	supporting := []string{}
	for _, s := range signals {
		if len(supporting) >= 5 {
			break
		}
		var haystack strings.Builder
		haystack.WriteString(strings.ToLower(s.Query))
		for _, e := range s.ParsedEvidence() {
			haystack.WriteString(" ")
			haystack.WriteString(cleanText(e.Snippet))
		}
		hay := haystack.String()
		for _, token := range tokens {
			if strings.Contains(hay, token) {
				supporting = append(supporting, s.ID.String())
				break
			}
		}
	}
	return supporting
}

func audienceTokens(audience string) []string {
	tokens := []string{}
	for _, token := range strings.Fields(strings.ToLower(audience)) {
		if len(token) > 3 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func proofPoints(enrichment *types.SignalEnrichment, signals []*types.Signal) []string {
	points := []string{}
	for _, s := range signals {
		if s.ID != enrichment.SignalID {
			continue
		}
		snippets := cleanSnippets(s.ParsedEvidence())
		if len(snippets) > 2 {
			snippets = snippets[:2]
		}
		points = append(points, snippets...)
	}
	topics := enrichment.FeatureStrings("key_topics")
	if len(topics) > 2 {
		topics = topics[:2]
	}
	points = append(points, topics...)
	if len(points) > 4 {
		points = points[:4]
	}
	return points
}

func cleanSnippets(evidence []types.EvidenceItem) []string {
	snippets := []string{}
	for _, e := range evidence {
		snippet := strings.Join(strings.Fields(e.Snippet), " ")
		if snippet != "" {
			snippets = append(snippets, snippet)
		}
	}
	return snippets
}

func cleanText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// truncate limits s to max characters, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
