package export

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/fieldcraft/fieldcraft-backend/internal/data/repos"
	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/apierr"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/services"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Campaigns  repos.CampaignRepo
	Blueprints blueprint.Usecases
	Audit      services.AuditService
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

type ExportInput struct {
	CampaignID  uuid.UUID
	WorkspaceID uuid.UUID
	UserID      *uuid.UUID

	Platform string
	DryRun   bool
}

type ExportOutput struct {
	Platform  string              `json:"platform"`
	DryRun    bool                `json:"dry_run"`
	Payload   map[string]any      `json:"payload"`
	Blueprint blueprint.Blueprint `json:"blueprint"`
}

// Export generates a transient blueprint and shapes it into the platform's
// payload format. The blueprint is never persisted by an export call.
func (u Usecases) Export(ctx context.Context, in ExportInput) (*ExportOutput, error) {
	adapter, err := AdapterFor(in.Platform)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "unsupported_platform", err)
	}

	campaign, err := u.deps.Campaigns.GetScoped(ctx, nil, in.CampaignID, in.WorkspaceID)
	if err != nil {
		return nil, err
	}

	result, err := u.deps.Blueprints.Generate(ctx, blueprint.GenerateInput{
		CampaignID:  in.CampaignID,
		WorkspaceID: in.WorkspaceID,
		UserID:      in.UserID,
		Persist:     false,
	})
	if err != nil {
		return nil, err
	}

	payload := adapter.BuildPayload(campaign, result.Blueprint)

	if u.deps.Audit != nil {
		u.deps.Audit.Record(ctx, in.WorkspaceID, in.UserID, "campaign.export_generated", "ad_export_service."+in.Platform, map[string]any{
			"campaign_id": in.CampaignID.String(),
			"dry_run":     in.DryRun,
		})
	}

	return &ExportOutput{
		Platform:  in.Platform,
		DryRun:    in.DryRun,
		Payload:   payload,
		Blueprint: result.Blueprint,
	}, nil
}
