package guard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	pkgRedis "adalert-srv/pkg/redis"

	"github.com/google/uuid"
)

// slidingWindowScript trims hits older than the window, then records one hit
// if fewer than limit remain. Returns 1 when allowed.
//
// KEYS[1] window key, ARGV[1] now (ms), ARGV[2] window (ms), ARGV[3] limit, ARGV[4] member
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`

// Redis is a guard shared by every replica.
type Redis struct {
	client pkgRedis.IRedis
	prefix string
	clock  func() time.Time
}

// NewRedis creates a Redis guard. Keys are namespaced under prefix.
func NewRedis(client pkgRedis.IRedis, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, clock: time.Now}
}

func (r *Redis) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.prefix+key, 1, ttl)
	if err != nil {
		return false, fmt.Errorf("guard: setnx: %w", err)
	}
	return ok, nil
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	now := r.clock().UnixMilli()
	res, err := r.client.Eval(ctx, slidingWindowScript, []string{r.prefix + key},
		now, window.Milliseconds(), limit, strconv.FormatInt(now, 10)+"-"+uuid.NewString())
	if err != nil {
		return false, fmt.Errorf("guard: eval: %w", err)
	}

	n, ok := res.(int64)
	if !ok {
		return false, fmt.Errorf("guard: unexpected script reply %T", res)
	}
	return n == 1, nil
}
