package blueprint

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	types "github.com/fieldcraft/fieldcraft-backend/internal/domain"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint/steps"
	"github.com/fieldcraft/fieldcraft-backend/internal/pkg/errs"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
)

// Dispatcher defers a generation to run outside the request. The Temporal
// runner implements it when configured; otherwise a goroutine stands in.
type Dispatcher interface {
	DispatchGenerate(ctx context.Context, in GenerateInput) error
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	LLM llm.Client

	Campaigns       repos.CampaignRepo
	Signals         repos.SignalRepo
	Enrichments     repos.EnrichmentRepo
	Analyses        repos.SignalAnalysisRepo
	StrategicBriefs repos.StrategicBriefRepo
	Blueprints      repos.BlueprintRepo

	Audit services.AuditService

	// Optional async runner.
	Dispatcher Dispatcher

	Config steps.GenerateConfig
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	Blueprint      = steps.Blueprint
	GenerateInput  = steps.GenerateInput
	GenerateOutput = steps.GenerateOutput

	GenerationError  = steps.GenerationError
	PersistenceError = steps.PersistenceError
)

func (u Usecases) Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error) {
	return steps.Generate(ctx, u.generateDeps(), in)
}

// GenerateAsync schedules a generation and returns immediately. The deferred
// run follows the exact Generate contract; only result availability differs.
func (u Usecases) GenerateAsync(ctx context.Context, in GenerateInput) error {
	if u.deps.Dispatcher != nil {
		return u.deps.Dispatcher.DispatchGenerate(ctx, in)
	}

	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := steps.Generate(runCtx, u.generateDeps(), in); err != nil {
			u.deps.Log.Error("Async blueprint generation failed",
				"campaign_id", in.CampaignID,
				"error", err,
			)
		}
	}()
	return nil
}

func (u Usecases) generateDeps() steps.GenerateDeps {
	return steps.GenerateDeps{
		DB:              u.deps.DB,
		Log:             u.deps.Log,
		LLM:             u.deps.LLM,
		Campaigns:       u.deps.Campaigns,
		Signals:         u.deps.Signals,
		Enrichments:     u.deps.Enrichments,
		Analyses:        u.deps.Analyses,
		StrategicBriefs: u.deps.StrategicBriefs,
		Blueprints:      u.deps.Blueprints,
		Audit:           u.deps.Audit,
		Config:          u.deps.Config,
	}
}

// BlueprintSummary is the listing row for persisted artifacts.
type BlueprintSummary struct {
	ID         uuid.UUID `json:"id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Version    int       `json:"version"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u Usecases) ListBlueprints(ctx context.Context, campaignID, workspaceID uuid.UUID) ([]BlueprintSummary, error) {
	if _, err := u.deps.Campaigns.GetScoped(ctx, nil, campaignID, workspaceID); err != nil {
		return nil, err
	}
	artifacts, err := u.deps.Blueprints.ListByCampaignID(ctx, nil, campaignID)
	if err != nil {
		return nil, err
	}
	out := make([]BlueprintSummary, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, BlueprintSummary{
			ID:         a.ID,
			CampaignID: a.CampaignID,
			Version:    a.Version,
			Summary:    a.Summary,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out, nil
}

func (u Usecases) GetBlueprint(ctx context.Context, campaignID, workspaceID, blueprintID uuid.UUID) (*types.BlueprintArtifact, error) {
	if _, err := u.deps.Campaigns.GetScoped(ctx, nil, campaignID, workspaceID); err != nil {
		return nil, err
	}
	artifact, err := u.deps.Blueprints.GetByID(ctx, nil, blueprintID)
	if err != nil {
		return nil, err
	}
	if artifact.CampaignID != campaignID {
		return nil, errs.ErrNotFound
	}
	return artifact, nil
}
