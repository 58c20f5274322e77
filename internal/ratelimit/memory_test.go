package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := &memoryLimiter{
		cfg:  Config{Limit: 3, Window: time.Minute},
		hits: map[string][]time.Time{},
		now:  func() time.Time { return current },
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ws:a")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should pass", i)
		}
		if res.Remaining != 2-i {
			t.Fatalf("request %d remaining = %d, want %d", i, res.Remaining, 2-i)
		}
	}

	res, err := l.Allow(ctx, "ws:a")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if res.Allowed {
		t.Fatalf("fourth request inside the window must be blocked")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("blocked result must carry a retry hint, got %v", res.RetryAfter)
	}

	// A different key is unaffected.
	if res, _ := l.Allow(ctx, "ws:b"); !res.Allowed {
		t.Fatalf("independent keys must not share windows")
	}

	// Sliding past the window frees the slot.
	current = current.Add(61 * time.Second)
	if res, _ := l.Allow(ctx, "ws:a"); !res.Allowed {
		t.Fatalf("request after the window elapsed must pass")
	}
}

func TestMemoryLimiterRetryFloor(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := &memoryLimiter{
		cfg:  Config{Limit: 1, Window: 500 * time.Millisecond},
		hits: map[string][]time.Time{},
		now:  func() time.Time { return current },
	}

	if res, _ := l.Allow(context.Background(), "k"); !res.Allowed {
		t.Fatalf("first request should pass")
	}
	res, _ := l.Allow(context.Background(), "k")
	if res.Allowed {
		t.Fatalf("second request should be blocked")
	}
	if res.RetryAfter < time.Second {
		t.Fatalf("retry hint floors at 1s, got %v", res.RetryAfter)
	}
}
