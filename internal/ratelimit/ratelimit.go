package ratelimit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldcraft/fieldcraft-backend/internal/platform/envutil"
	"github.com/fieldcraft/fieldcraft-backend/internal/platform/logger"
)

// Result reports the outcome of a single rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key over a sliding window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type Config struct {
	Limit  int
	Window time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Limit:  envutil.Int("RATE_LIMIT_REQUESTS", 60),
		Window: time.Duration(envutil.Int("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
}

// NewFromEnv returns a redis-backed limiter when REDIS_ADDR is configured and
// an in-process one otherwise. The in-process limiter only protects a single
// instance; multi-instance deployments should run redis.
func NewFromEnv(log *logger.Logger) (Limiter, error) {
	cfg := ConfigFromEnv()

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		log.Info("REDIS_ADDR not set; using in-process rate limiter")
		return NewMemoryLimiter(cfg), nil
	}

	opts := &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envutil.Int("REDIS_DB", 0),
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("Rate limiter using redis", "addr", addr, "limit", cfg.Limit, "window", cfg.Window.String())
	return NewRedisLimiter(rdb, cfg), nil
}
