package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/http"
	httpH "github.com/yungbote/sitebuilder-backend/internal/http/handlers"
	httpMW "github.com/yungbote/sitebuilder-backend/internal/http/middleware"
	"github.com/yungbote/sitebuilder-backend/internal/observability"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Website *httpH.WebsiteHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(pingDB(db)),
		Auth:    httpH.NewAuthHandler(services.Auth),
		User:    httpH.NewUserHandler(services.User),
		Website: httpH.NewWebsiteHandler(log, services.Website),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, clients Clients, handlers Handlers, middleware Middleware) *gin.Engine {
	rc := http.RouterConfig{
		Log:            log,
		ServiceName:    cfg.OtelServiceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        metrics,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		UserHandler:    handlers.User,
		WebsiteHandler: handlers.Website,
	}
	if clients.GenerateLimiter != nil {
		rc.GenerateLimiter = clients.GenerateLimiter
	}
	return http.NewRouter(rc)
}
