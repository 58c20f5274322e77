package app

import (
	"time"

	"github.com/fieldcraft/fieldcraft-backend/internal/platform/envutil"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	BlueprintUseLLM      bool
	BlueprintMaxTokens   int
	SignalRelevanceFloor float64

	StrategicBriefMaxTokens int
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL: time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,

		BlueprintUseLLM:      envutil.Bool("BLUEPRINT_USE_LLM", true),
		BlueprintMaxTokens:   envutil.Int("BLUEPRINT_MAX_TOKENS", 4000),
		SignalRelevanceFloor: envutil.Float("SIGNAL_RELEVANCE_FLOOR", 0.0),

		StrategicBriefMaxTokens: envutil.Int("STRATEGIC_BRIEF_MAX_TOKENS", 8000),
	}
}
