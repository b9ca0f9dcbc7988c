package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/reelpath/internal/app"
	"github.com/vanshika/reelpath/internal/config"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/server"
	"github.com/vanshika/reelpath/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build search pipeline", "error", err, "source", cfg.Catalog.Source)
		os.Exit(1)
	}
	defer func() {
		if err := stack.Close(context.Background()); err != nil {
			logger.Warn("closing catalog source failed", "error", err)
		}
	}()

	connections := service.NewConnectionService(stack.Engine, logger, stack.Metrics)
	apiHandlers := server.NewAPIHandlers(logger, connections, stack.Credits, cfg.Search.Timeout)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           stack.Health,
		API:              apiHandlers,
		Metrics:          stack.MetricsHandler(cfg.HTTP),
		Source:           cfg.Catalog.Source,
		AllowedOrigins:   server.ParseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}
