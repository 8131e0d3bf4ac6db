package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

// Health routes are polled constantly; they only show up at debug level.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/readyz":      true,
}

// RequestLogger writes one access line per request once the handler chain has finished.
// 5xx logs at error, 4xx at warn, everything else at info.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "AccessLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		fields := accessFields(c, route, status, time.Since(start))

		switch {
		case quietRoutes[route] && status < 500:
			log.Debug("HTTP request", fields...)
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func accessFields(c *gin.Context, route string, status int, took time.Duration) []interface{} {
	if route == "" {
		route = "unmatched"
	}
	fields := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"path", c.Request.URL.Path,
		"status", status,
		"bytes", c.Writer.Size(),
		"client_ip", c.ClientIP(),
		"duration_ms", took.Milliseconds(),
	}

	ctx := c.Request.Context()
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}
	if uid := ctxutil.CallerID(ctx); uid != uuid.Nil {
		fields = append(fields, "user_id", uid.String())
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "errors", c.Errors.Errors())
	}
	return fields
}
