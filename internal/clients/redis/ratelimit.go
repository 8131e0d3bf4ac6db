package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

const defaultKeyPrefix = "sitebuilder:ratelimit"

type Config struct {
	Addr      string
	KeyPrefix string
	Limit     int
	Window    time.Duration
}

// Decision is the outcome of one Allow call. RetryAfter is only meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter counts hits per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Close() error
}

type rateLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(log *logger.Logger, cfg Config) (RateLimiter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive")
	}
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("rate window must be positive")
	}
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &rateLimiter{
		log:    log.With("client", "RedisRateLimiter"),
		rdb:    rdb,
		prefix: prefix,
		limit:  cfg.Limit,
		window: cfg.Window,
	}, nil
}

// Allow increments the counter of the current window for key. The window key expires with
// the window, so counters never need sweeping.
func (l *rateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l == nil || l.rdb == nil {
		return Decision{}, fmt.Errorf("redis rate limiter not initialized")
	}
	now := time.Now()
	windowStart := now.Truncate(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, windowStart.Unix())

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("redis rate limit: %w", err)
	}

	count := int(incr.Val())
	if count > l.limit {
		return Decision{
			Allowed:    false,
			RetryAfter: windowStart.Add(l.window).Sub(now),
		}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - count}, nil
}

func (l *rateLimiter) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
