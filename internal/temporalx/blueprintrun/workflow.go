package blueprintrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one blueprint generation end to end. Generation is a single
// activity because the pipeline already owns its own transaction boundaries;
// splitting it across activities would let a retry re-enter a half-persisted
// run.
func Workflow(ctx workflow.Context, req Request) (Result, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Minute,
		HeartbeatTimeout:    60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivityGenerate, req).Get(ctx, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}
