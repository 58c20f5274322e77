package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript implements a sorted-set sliding window. Members are
// scored by request timestamp in microseconds; expired members are pruned
// before counting so the check and the insert happen atomically.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  local retry = window
  if oldest[2] then
    retry = (tonumber(oldest[2]) + window) - now
  end
  return {0, limit - count, retry}
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('PEXPIRE', key, math.ceil(window / 1000))
return {1, limit - count - 1, 0}
`)

type redisLimiter struct {
	rdb *redis.Client
	cfg Config
}

func NewRedisLimiter(rdb *redis.Client, cfg Config) Limiter {
	return &redisLimiter{rdb: rdb, cfg: cfg}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UnixMicro()
	windowMicros := l.cfg.Window.Microseconds()

	vals, err := slidingWindowScript.Run(ctx, l.rdb,
		[]string{"ratelimit:" + key},
		now, windowMicros, l.cfg.Limit,
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit script: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("ratelimit script: unexpected reply length %d", len(vals))
	}

	res := Result{
		Allowed:   vals[0] == 1,
		Remaining: int(vals[1]),
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(vals[2]) * time.Microsecond
		if res.RetryAfter < time.Second {
			res.RetryAfter = time.Second
		}
	}
	return res, nil
}
