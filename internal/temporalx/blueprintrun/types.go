package blueprintrun

import "github.com/google/uuid"

const (
	WorkflowName     = "blueprint_run"
	ActivityGenerate = "blueprint_generate"
)

// Request mirrors the synchronous generate contract so a deferred run
// produces exactly what a blocking call would.
type Request struct {
	CampaignID         uuid.UUID  `json:"campaign_id"`
	WorkspaceID        uuid.UUID  `json:"workspace_id"`
	UserID             *uuid.UUID `json:"user_id,omitempty"`
	Persist            bool       `json:"persist"`
	UseLLM             *bool      `json:"use_llm,omitempty"`
	CustomInstructions string     `json:"custom_instructions,omitempty"`
}

type Result struct {
	ArtifactID *uuid.UUID `json:"artifact_id,omitempty"`
	Summary    string     `json:"summary"`
	Method     string     `json:"generation_method"`
}
