package blueprintrun

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

type Activities struct {
	Log        *logger.Logger
	Blueprints blueprint.Usecases
}

func (a *Activities) Generate(ctx context.Context, req Request) (Result, error) {
	if a == nil {
		return Result{}, fmt.Errorf("blueprintrun: activity not configured")
	}

	stopHB := startHeartbeat(ctx)
	defer stopHB()

	out, err := a.Blueprints.Generate(ctx, blueprint.GenerateInput{
		CampaignID:         req.CampaignID,
		WorkspaceID:        req.WorkspaceID,
		UserID:             req.UserID,
		Persist:            req.Persist,
		UseLLM:             req.UseLLM,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		if a.Log != nil {
			a.Log.Error("Blueprint activity failed", "campaign_id", req.CampaignID, "error", err)
		}
		return Result{}, err
	}

	return Result{
		ArtifactID: out.Blueprint.ArtifactID,
		Summary:    out.Blueprint.Summary,
		Method:     out.Blueprint.Metadata.GenerationMethod,
	}, nil
}

// startHeartbeat keeps the activity alive while the LLM call is in flight.
func startHeartbeat(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		hb := time.NewTicker(20 * time.Second)
		defer hb.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-hb.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
