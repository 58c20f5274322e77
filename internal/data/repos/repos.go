package repos

import (
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos/identity"
	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos/intel"
)

type WorkspaceRepo = identity.WorkspaceRepo
type UserRepo = identity.UserRepo
type APIKeyRepo = identity.APIKeyRepo

type CampaignRepo = intel.CampaignRepo
type SignalRepo = intel.SignalRepo
type EnrichmentRepo = intel.EnrichmentRepo
type SignalAnalysisRepo = intel.SignalAnalysisRepo
type StrategicBriefRepo = intel.StrategicBriefRepo
type BlueprintRepo = intel.BlueprintRepo
type AuditLogRepo = intel.AuditLogRepo

var NewWorkspaceRepo = identity.NewWorkspaceRepo
var NewUserRepo = identity.NewUserRepo
var NewAPIKeyRepo = identity.NewAPIKeyRepo

var NewCampaignRepo = intel.NewCampaignRepo
var NewSignalRepo = intel.NewSignalRepo
var NewEnrichmentRepo = intel.NewEnrichmentRepo
var NewSignalAnalysisRepo = intel.NewSignalAnalysisRepo
var NewStrategicBriefRepo = intel.NewStrategicBriefRepo
var NewBlueprintRepo = intel.NewBlueprintRepo
var NewAuditLogRepo = intel.NewAuditLogRepo
