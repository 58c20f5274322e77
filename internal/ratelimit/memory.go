package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryLimiter struct {
	mu   sync.Mutex
	cfg  Config
	hits map[string][]time.Time

	now func() time.Time
}

func NewMemoryLimiter(cfg Config) Limiter {
	return &memoryLimiter{
		cfg:  cfg,
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.hits[key] = kept

	if len(kept) >= l.cfg.Limit {
		retry := kept[0].Add(l.cfg.Window).Sub(now)
		if retry < time.Second {
			retry = time.Second
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
	}

	l.hits[key] = append(kept, now)
	return Result{Allowed: true, Remaining: l.cfg.Limit - len(kept) - 1}, nil
}
