package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"xuankong-api/internal/domain/repository"
)

// slidingWindow 清理窗口外记录、计数并写入在同一脚本内完成
// KEYS[1] 限流键；ARGV: now_ms, window_start_ms, limit, member, ttl_ms
// 返回 {allowed, count}
var slidingWindow = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '0', ARGV[2])
local count = redis.call('ZCARD', KEYS[1])
if count >= tonumber(ARGV[3]) then
	return {0, count}
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {1, count + 1}
`)

// RateLimiter 滑动窗口限流器
type RateLimiter struct {
	client *Client
	now    func() time.Time
}

var _ repository.RateLimiter = (*RateLimiter)(nil)

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// Allow 检查是否允许请求（滑动窗口算法），判定与计数原子完成
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (repository.RateLimitResult, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	now := l.now()
	res, err := slidingWindow.Run(ctx, l.client.rdb, []string{key},
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		limit,
		uuid.NewString(),
		(window * 2).Milliseconds(),
	).Int64Slice()
	if err != nil {
		span.RecordError(err)
		return repository.RateLimitResult{}, err
	}
	if len(res) != 2 {
		err := fmt.Errorf("unexpected rate limit reply: %v", res)
		span.RecordError(err)
		return repository.RateLimitResult{}, err
	}

	out := repository.RateLimitResult{
		Allowed:   res[0] == 1,
		Remaining: max(limit-int(res[1]), 0),
	}
	span.SetAttributes(
		attribute.Int64("ratelimit.current_count", res[1]),
		attribute.Bool("ratelimit.allowed", out.Allowed),
	)
	return out, nil
}
