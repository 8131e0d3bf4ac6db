package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/sitebuilder-backend/internal/app"
	"github.com/yungbote/sitebuilder-backend/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOtel := observability.InitOTel(ctx, application.Log, cfg.Otel())
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			application.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	application.Log.Info("Starting sitebuilder", "port", cfg.Port, "metrics_port", cfg.MetricsPort, "db_driver", cfg.DBDriver)
	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		application.Log.Error("Server failed", "error", err)
		application.Close()
		os.Exit(1)
	}
	application.Log.Info("Shut down cleanly")
}
