package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
)

type GenerateConfig struct {
	// UseLLM is the default when the request leaves the choice open.
	UseLLM         bool
	RelevanceFloor float64
	MaxTokens      int
}

type GenerateDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	// LLM may be nil; the rule-based path then serves every request.
	LLM llm.Client

	Campaigns       repos.CampaignRepo
	Signals         repos.SignalRepo
	Enrichments     repos.EnrichmentRepo
	Analyses        repos.SignalAnalysisRepo
	StrategicBriefs repos.StrategicBriefRepo
	Blueprints      repos.BlueprintRepo

	Audit services.AuditService

	Config GenerateConfig
}

type GenerateInput struct {
	CampaignID  uuid.UUID
	WorkspaceID uuid.UUID
	UserID      *uuid.UUID

	Persist            bool
	UseLLM             *bool
	CustomInstructions string
}

type GenerateOutput struct {
	Blueprint Blueprint
	Artifact  *types.BlueprintArtifact
}

// Generate runs the full pipeline: assemble context, generate (LLM with
// rule-based fallback), enforce channel coverage, optionally persist. An LLM
// failure degrades to the rule-based result and is never surfaced; only
// workspace mismatches and storage writes fail the call.
func Generate(ctx context.Context, deps GenerateDeps, in GenerateInput) (GenerateOutput, error) {
	log := deps.Log.With("step", "GenerateBlueprint", "campaign_id", in.CampaignID)

	gc, err := AssembleContext(ctx, AssembleContextDeps{
		DB:              deps.DB,
		Log:             deps.Log,
		Campaigns:       deps.Campaigns,
		Signals:         deps.Signals,
		Enrichments:     deps.Enrichments,
		Analyses:        deps.Analyses,
		StrategicBriefs: deps.StrategicBriefs,
	}, AssembleContextInput{
		CampaignID:     in.CampaignID,
		WorkspaceID:    in.WorkspaceID,
		RelevanceFloor: deps.Config.RelevanceFloor,
	})
	if err != nil {
		return GenerateOutput{}, err
	}

	ruleBased := BuildRuleBased(gc, time.Now())
	preview := BuildPreview(ruleBased)

	final := ruleBased

	useLLM := deps.Config.UseLLM
	if in.UseLLM != nil {
		useLLM = *in.UseLLM
	}
	if useLLM {
		llmBlueprint, llmErr := GenerateLLM(ctx, GenerateLLMDeps{
			Client:    deps.LLM,
			Log:       deps.Log,
			MaxTokens: deps.Config.MaxTokens,
		}, gc, ruleBased, in.CustomInstructions)
		if llmErr != nil {
			log.Warn("LLM blueprint generation failed; falling back to rule-based", "error", llmErr)
			final.Metadata.LLMError = llmErr.Error()
		} else {
			final = llmBlueprint
		}
	}

	enforceChannelCoverage(gc, &final)
	final.Metadata.AssetCounts = countAssets(final.DraftAssets)
	final.Metadata.RuleBasedPreview = preview

	out := GenerateOutput{}
	if in.Persist {
		final.Metadata.Persisted = true

		raw, err := json.Marshal(final)
		if err != nil {
			return GenerateOutput{}, &PersistenceError{Err: fmt.Errorf("marshal blueprint: %w", err)}
		}
		artifact, err := deps.Blueprints.CreateNextVersion(ctx, nil, &types.BlueprintArtifact{
			CampaignID: gc.Campaign.ID,
			Summary:    final.Summary,
			Blueprint:  datatypes.JSON(raw),
		})
		if err != nil {
			return GenerateOutput{}, &PersistenceError{Err: err}
		}
		final.ArtifactID = &artifact.ID
		out.Artifact = artifact
	} else {
		final.Metadata.Persisted = false
	}
	out.Blueprint = final

	if deps.Audit != nil {
		details := map[string]any{
			"campaign_id":       gc.Campaign.ID.String(),
			"generation_method": final.Metadata.GenerationMethod,
			"llm_used":          final.Metadata.LLMUsed,
		}
		if out.Artifact != nil {
			details["artifact_id"] = out.Artifact.ID.String()
			details["version"] = out.Artifact.Version
		}
		deps.Audit.Record(ctx, in.WorkspaceID, in.UserID, "campaign.blueprint_generated", "blueprint_orchestrator", details)
	}

	log.Info("Blueprint generated",
		"generation_method", final.Metadata.GenerationMethod,
		"llm_used", final.Metadata.LLMUsed,
		"persisted", final.Metadata.Persisted,
		"assets", len(final.DraftAssets),
	)
	return out, nil
}

// enforceChannelCoverage tops every declared channel up to the minimum asset
// count using the templated generator, so the invariant holds regardless of
// what the LLM produced.
func enforceChannelCoverage(gc *GenerationContext, bp *Blueprint) {
	counts := countAssets(bp.DraftAssets)
	for _, channel := range gc.Channels() {
		missing := assetsPerChannel - counts[channel]
		if missing <= 0 {
			continue
		}
		bp.DraftAssets = append(bp.DraftAssets, BuildChannelAssets(gc, channel, missing, bp.AudienceHypotheses)...)
	}
}

func countAssets(assets []DraftAsset) map[string]int {
	counts := map[string]int{}
	for _, asset := range assets {
		counts[asset.Platform]++
	}
	return counts
}
