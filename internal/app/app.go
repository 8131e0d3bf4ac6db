package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/data/db"
	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	"github.com/yungbote/sitebuilder-backend/internal/http"
	"github.com/yungbote/sitebuilder-backend/internal/observability"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	dbService *db.Service
	clients   Clients
}

func New(cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET_KEY is not set, using the development default")
	}

	dbService, err := db.Open(log, cfg.DB())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureIndexes(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	metrics := observability.NewMetrics()
	observability.SetCurrent(metrics)

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, clients, handlerset, middleware)

	return &App{
		Log:       log,
		DB:        theDB,
		Router:    router,
		Cfg:       cfg,
		Repos:     reposet,
		Services:  serviceset,
		Metrics:   metrics,
		dbService: dbService,
		clients:   clients,
	}, nil
}

// Run serves the API and the metrics listener until ctx is canceled or either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return http.Serve(gctx, a.Log.With("listener", "api"), ":"+a.Cfg.Port, a.Router)
	})
	if a.Cfg.MetricsPort != "" && a.Cfg.MetricsPort != "0" {
		g.Go(func() error {
			return http.Serve(gctx, a.Log.With("listener", "metrics"), ":"+a.Cfg.MetricsPort, a.Metrics.Handler())
		})
	}
	g.Go(func() error {
		sweepExpiredTokens(gctx, a.Log, a.Repos.UserToken, a.Cfg.TokenSweepEvery)
		return nil
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// sweepExpiredTokens deletes refresh-token rows past their expiry every interval.
func sweepExpiredTokens(ctx context.Context, log *logger.Logger, tokens repos.UserTokenRepo, every time.Duration) {
	if tokens == nil || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.DeleteExpired(ctx, nil, time.Now())
			if err != nil {
				log.Warn("Expired token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("Expired tokens removed", "count", n)
			}
		}
	}
}

func pingDB(gdb *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
