package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/reelpath/internal/app"
	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/config"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/repository"
	"github.com/vanshika/reelpath/internal/service"
)

func main() {
	var (
		datasetPath = flag.String("dataset", "data/catalog.yaml", "Path to the YAML or JSON catalog to load")
		workers     = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Graph.URI == "" {
		fmt.Fprintln(os.Stderr, config.ErrMissingGraphURI)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	dataset, err := catalog.LoadDataset(*datasetPath)
	if err != nil {
		logger.Error("failed to load catalog", "error", err, "path", *datasetPath)
		os.Exit(1)
	}
	if len(dataset.Movies) == 0 {
		logger.Error("catalog is empty", "path", *datasetPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := app.NewGraphClient(ctx, cfg.Graph)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	ingestor := service.NewBulkIngestor(repo, *workers, logger)

	start := time.Now()
	logger.Info("ingesting movies", "count", len(dataset.Movies), "workers", *workers)
	report, err := ingestor.IngestMovies(ctx, dataset.Movies)
	if err != nil {
		logger.Error("movie ingestion failed", "error", err, "written", report.Written, "failed", report.Failed)
		os.Exit(1)
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		logger.Warn("could not read catalog counts", "error", err)
	}
	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"movies", report.Written,
		"nodesCreated", report.Changes.NodesCreated,
		"relationshipsCreated", report.Changes.RelationshipsCreated,
		"propertiesSet", report.Changes.PropertiesSet,
		"storedMovies", counts.Movies,
		"storedPeople", counts.People,
		"storedCredits", counts.Credits,
	)
}
