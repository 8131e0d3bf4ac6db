package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/sitebuilder-backend/internal/clients/redis"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
	"github.com/yungbote/sitebuilder-backend/internal/platform/openai"
)

type Clients struct {
	OpenAI          openai.Client
	GenerateLimiter redis.RateLimiter
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Openai
	openaiClient, err := openai.NewClient(log, cfg.OpenAI())
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// Redis
	var limiter redis.RateLimiter
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		l, err := redis.NewRateLimiter(log, redis.Config{
			Addr:      cfg.RedisAddr,
			KeyPrefix: "sitebuilder:ratelimit",
			Limit:     cfg.GenerateRateLimit,
			Window:    cfg.GenerateRateWindow,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis rate limiter: %w", err)
		}
		limiter = l
	} else {
		log.Warn("REDIS_ADDR not set, generate is not rate limited")
	}

	return Clients{
		OpenAI:          openaiClient,
		GenerateLimiter: limiter,
	}, nil
}

func (c Clients) Close() {
	if c.GenerateLimiter != nil {
		_ = c.GenerateLimiter.Close()
	}
}
