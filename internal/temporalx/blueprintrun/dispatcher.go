package blueprintrun

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/fieldcraft/fieldcraft-backend/internal/modules/blueprint"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/temporalx"
)

// Dispatcher starts blueprint workflows on the configured task queue. One
// workflow per campaign at a time; a second dispatch while one is running
// reuses the open execution.
type Dispatcher struct {
	log *logger.Logger
	tc  temporalsdkclient.Client
}

func NewDispatcher(log *logger.Logger, tc temporalsdkclient.Client) (*Dispatcher, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	return &Dispatcher{log: log, tc: tc}, nil
}

func (d *Dispatcher) DispatchGenerate(ctx context.Context, in blueprint.GenerateInput) error {
	cfg := temporalx.LoadConfig()

	req := Request{
		CampaignID:         in.CampaignID,
		WorkspaceID:        in.WorkspaceID,
		UserID:             in.UserID,
		Persist:            in.Persist,
		UseLLM:             in.UseLLM,
		CustomInstructions: in.CustomInstructions,
	}

	run, err := d.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        "blueprint/" + in.CampaignID.String(),
		TaskQueue: cfg.TaskQueue,
	}, WorkflowName, req)
	if err != nil {
		return fmt.Errorf("dispatch blueprint workflow: %w", err)
	}
	if d.log != nil {
		d.log.Info("Dispatched blueprint workflow",
			"campaign_id", in.CampaignID,
			"workflow_id", run.GetID(),
			"run_id", run.GetRunID(),
		)
	}
	return nil
}
