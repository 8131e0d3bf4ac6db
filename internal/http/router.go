package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/sitebuilder-backend/internal/http/handlers"
	httpMW "github.com/yungbote/sitebuilder-backend/internal/http/middleware"
	"github.com/yungbote/sitebuilder-backend/internal/observability"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	WebsiteHandler *httpH.WebsiteHandler
	HealthHandler  *httpH.HealthHandler

	// GenerateLimiter throttles POST /api/generate. Nil disables throttling.
	GenerateLimiter httpMW.Limiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "sitebuilder-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
		if cfg.WebsiteHandler != nil {
			api.GET("/templates", cfg.WebsiteHandler.Templates)
		}
	}

	// Websites are usable anonymously; a valid token makes the caller the owner.
	open := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			open.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		if cfg.WebsiteHandler != nil {
			open.POST("/generate", httpMW.RateLimit(cfg.Log, "generate", cfg.GenerateLimiter), cfg.WebsiteHandler.Generate)
			open.POST("/customize", cfg.WebsiteHandler.Customize)
			open.GET("/generation/:id", cfg.WebsiteHandler.Get)
			open.GET("/generation/:id/palette.png", cfg.WebsiteHandler.Palette)
			open.GET("/preview/:id", cfg.WebsiteHandler.Preview)
			open.GET("/download/:id", cfg.WebsiteHandler.Download)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.ChangeName)
		}

		if cfg.WebsiteHandler != nil {
			protected.GET("/my-websites", cfg.WebsiteHandler.ListMine)
			protected.DELETE("/generation/:id", cfg.WebsiteHandler.Delete)
		}
	}

	return r
}
