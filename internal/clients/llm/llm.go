package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

// CompletionRequest is a provider-neutral text completion request. Callers
// render the full prompt themselves; the client only handles transport.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type CompletionResult struct {
	Text       string
	Provider   string
	Model      string
	TokensUsed int
}

// Client is the minimal LLM surface the generation pipelines depend on.
// Implementations must honor ctx cancellation and return transport errors
// unwrapped so retry classification works.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
	Provider() string
	Model() string
}

// FromEnv builds the configured provider's client. Provider selection follows
// LLM_PROVIDER ("anthropic" | "openai", default "anthropic").
func FromEnv(log *logger.Logger) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = ProviderAnthropic
	}

	switch provider {
	case ProviderAnthropic:
		return NewClaudeClient(log)
	case ProviderOpenAI:
		return NewOpenAIClient(log)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}
}

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)
