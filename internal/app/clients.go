package app

import (
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/fieldcraft/fieldcraft-backend/internal/clients/llm"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
	"github.com/fieldcraft/fieldcraft-backend/internal/ratelimit"
	"github.com/fieldcraft/fieldcraft-backend/internal/temporalx"
)

type Clients struct {
	// LLM is nil when no provider key is configured; generation then always
	// takes the rule-based path.
	LLM llm.Client

	RateLimiter ratelimit.Limiter

	// Temporal is nil unless TEMPORAL_ADDRESS is set.
	Temporal temporalsdkclient.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	llmClient, err := llm.FromEnv(log)
	if err != nil {
		log.Warn("LLM client unavailable; falling back to rule-based generation", "error", err)
		llmClient = nil
	}

	limiter, err := ratelimit.NewFromEnv(log)
	if err != nil {
		return Clients{}, err
	}

	tc, err := temporalx.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	return Clients{
		LLM:         llmClient,
		RateLimiter: limiter,
		Temporal:    tc,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
}
