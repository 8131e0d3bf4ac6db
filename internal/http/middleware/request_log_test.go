package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

func observedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/generation/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/api/generate", func(c *gin.Context) {
		_ = c.Error(errors.New("model timeout"))
		c.Status(http.StatusBadGateway)
	})
	return r, logs
}

func serve(r http.Handler, method, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, nil))
}

func TestRequestLoggerLevelsAndFields(t *testing.T) {
	r, logs := observedRouter(t)

	serve(r, http.MethodGet, "/api/generation/abc")
	serve(r, http.MethodPost, "/api/generate")
	serve(r, http.MethodGet, "/nope")
	serve(r, http.MethodGet, "/readyz")

	entries := logs.All()
	require.Len(t, entries, 4)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/generation/:id", ok["route"])
	assert.Equal(t, "/api/generation/abc", ok["path"])
	assert.EqualValues(t, 2, ok["bytes"])

	failed := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.Equal(t, []interface{}{"model timeout"}, failed.ContextMap()["errors"])

	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "unmatched", entries[2].ContextMap()["route"])

	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
}

func TestRequestLoggerNilLoggerPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
