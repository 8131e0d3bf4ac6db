package middleware

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sitebuilder-backend/internal/clients/redis"
	"github.com/yungbote/sitebuilder-backend/internal/http/response"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

// Limiter is the subset of redis.RateLimiter the middleware needs.
type Limiter interface {
	Allow(ctx context.Context, key string) (redis.Decision, error)
}

// RateLimit throttles a route per caller: authenticated users by id, anonymous callers by
// client IP. A nil limiter disables it. Limiter failures let the request through.
func RateLimit(log *logger.Logger, scope string, limiter Limiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := scope + ":ip:" + c.ClientIP()
		if uid := ctxutil.CallerID(c.Request.Context()); uid != uuid.Nil {
			key = scope + ":user:" + uid.String()
		}

		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable", "scope", scope, "error", err)
			}
			c.Next()
			return
		}
		if !d.Allowed {
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.Abort()
			response.RespondAPIError(c, apierr.RateLimited("too many requests, try again later").
				WithDetail("retry_after_seconds", retry))
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Next()
	}
}
