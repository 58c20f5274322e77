package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint/steps"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/export"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/strategicbrief"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
	"github.com/fieldcraft/fieldcraft-backend/internal/temporalx/blueprintrun"
)

type Services struct {
	Auth  services.AuthService
	Audit services.AuditService

	Blueprint      blueprint.Usecases
	StrategicBrief strategicbrief.Usecases
	Export         export.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(services.AuthDeps{
		DB:         db,
		Users:      r.User,
		Workspaces: r.Workspace,
		APIKeys:    r.APIKey,
		Log:        log,
		JWTSecret:  cfg.JWTSecretKey,
		TokenTTL:   cfg.AccessTokenTTL,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	auditService := services.NewAuditService(r.AuditLog, log)

	blueprintDeps := blueprint.UsecasesDeps{
		DB:  db,
		Log: log,
		LLM: c.LLM,

		Campaigns:       r.Campaign,
		Signals:         r.Signal,
		Enrichments:     r.Enrichment,
		Analyses:        r.SignalAnalysis,
		StrategicBriefs: r.StrategicBrief,
		Blueprints:      r.Blueprint,

		Audit: auditService,

		Config: steps.GenerateConfig{
			UseLLM:         cfg.BlueprintUseLLM,
			RelevanceFloor: cfg.SignalRelevanceFloor,
			MaxTokens:      cfg.BlueprintMaxTokens,
		},
	}
	if c.Temporal != nil {
		dispatcher, err := blueprintrun.NewDispatcher(log, c.Temporal)
		if err != nil {
			return Services{}, fmt.Errorf("init blueprint dispatcher: %w", err)
		}
		blueprintDeps.Dispatcher = dispatcher
	}
	blueprintUsecases := blueprint.New(blueprintDeps)

	strategicBriefUsecases := strategicbrief.New(strategicbrief.UsecasesDeps{
		DB:  db,
		Log: log,
		LLM: c.LLM,

		Campaigns:       r.Campaign,
		Signals:         r.Signal,
		Analyses:        r.SignalAnalysis,
		StrategicBriefs: r.StrategicBrief,

		MaxTokens: cfg.StrategicBriefMaxTokens,
	})

	exportUsecases := export.New(export.UsecasesDeps{
		Log: log,

		Campaigns:  r.Campaign,
		Blueprints: blueprintUsecases,
		Audit:      auditService,
	})

	return Services{
		Auth:  authService,
		Audit: auditService,

		Blueprint:      blueprintUsecases,
		StrategicBrief: strategicBriefUsecases,
		Export:         exportUsecases,
	}, nil
}
