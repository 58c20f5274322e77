package app

import (
	"gorm.io/gorm"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type Repos struct {
	Workspace repos.WorkspaceRepo
	User      repos.UserRepo
	APIKey    repos.APIKeyRepo

	Campaign       repos.CampaignRepo
	Signal         repos.SignalRepo
	Enrichment     repos.EnrichmentRepo
	SignalAnalysis repos.SignalAnalysisRepo
	StrategicBrief repos.StrategicBriefRepo
	Blueprint      repos.BlueprintRepo
	AuditLog       repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Workspace: repos.NewWorkspaceRepo(db, log),
		User:      repos.NewUserRepo(db, log),
		APIKey:    repos.NewAPIKeyRepo(db, log),

		Campaign:       repos.NewCampaignRepo(db, log),
		Signal:         repos.NewSignalRepo(db, log),
		Enrichment:     repos.NewEnrichmentRepo(db, log),
		SignalAnalysis: repos.NewSignalAnalysisRepo(db, log),
		StrategicBrief: repos.NewStrategicBriefRepo(db, log),
		Blueprint:      repos.NewBlueprintRepo(db, log),
		AuditLog:       repos.NewAuditLogRepo(db, log),
	}
}
