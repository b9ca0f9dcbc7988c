// Package app assembles the search pipeline from configuration: catalog
// source, failure-absorbing provider, credit cache and engine.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vanshika/reelpath/internal/cache"
	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/config"
	"github.com/vanshika/reelpath/internal/graph"
	"github.com/vanshika/reelpath/internal/metrics"
	"github.com/vanshika/reelpath/internal/repository"
	"github.com/vanshika/reelpath/internal/search"
	"github.com/vanshika/reelpath/internal/server"
)

// Stack is the assembled pipeline. Close releases the graph connection when
// the graph source is in use. Health is nil for the in-memory dataset source,
// which has nothing external to check.
type Stack struct {
	Source  catalog.Source
	Credits *cache.Credits
	Engine  *search.Engine
	Metrics *metrics.Recorder
	Health  server.HealthService

	graph graph.Client
}

// Build wires the pipeline for cfg. Extra engine options are applied after
// the ones derived from cfg.Search.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...search.Option) (*Stack, error) {
	rec := metrics.New()

	src, graphClient, err := NewSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := catalog.Absorb(src, logger, rec)
	credits := cache.NewCredits(provider,
		cache.WithCastCaching(cfg.Search.CacheCast),
		cache.WithRecorder(rec),
	)

	engineOpts := []search.Option{
		search.WithFanOut(cfg.Search.FanOut),
		search.WithMaxSteps(cfg.Search.MaxSteps),
	}
	engineOpts = append(engineOpts, opts...)

	stack := &Stack{
		Source:  src,
		Credits: credits,
		Engine:  search.New(credits, engineOpts...),
		Metrics: rec,
		graph:   graphClient,
	}
	switch s := src.(type) {
	case *catalog.TMDBClient:
		stack.Health = server.HealthFunc(s.Ping)
	case *repository.Repository:
		stack.Health = server.GraphHealthService{Client: graphClient}
	}
	return stack, nil
}

// MetricsHandler returns the Prometheus handler when metrics are enabled.
func (s *Stack) MetricsHandler(cfg config.HTTPConfig) http.Handler {
	if !cfg.MetricsEnabled {
		return nil
	}
	return s.Metrics.Handler()
}

// Close releases resources held by the stack.
func (s *Stack) Close(ctx context.Context) error {
	if s.graph == nil {
		return nil
	}
	return s.graph.Close(ctx)
}

// NewSource builds the catalog backend named by cfg.Catalog.Source. The graph
// client is returned as well when one was opened, so callers can close it.
func NewSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (catalog.Source, graph.Client, error) {
	switch cfg.Catalog.Source {
	case config.SourceTMDB:
		client, err := catalog.NewTMDBClient(catalog.TMDBOptions{
			APIKey:            cfg.TMDB.APIKey,
			BaseURL:           cfg.TMDB.BaseURL,
			RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
			Burst:             cfg.TMDB.Burst,
			Timeout:           cfg.TMDB.Timeout,
			MaxRetries:        cfg.TMDB.MaxRetries,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build tmdb source: %w", err)
		}
		return client, nil, nil

	case config.SourceDataset:
		ds, err := catalog.LoadDataset(cfg.Catalog.DatasetPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog dataset: %w", err)
		}
		logger.Info("loaded catalog dataset", "path", cfg.Catalog.DatasetPath, "movies", len(ds.Movies))
		return catalog.NewMemorySource(ds), nil, nil

	case config.SourceGraph:
		client, err := NewGraphClient(ctx, cfg.Graph)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
		return repository.New(client), client, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// NewGraphClient opens and verifies a Neo4j connection.
func NewGraphClient(ctx context.Context, cfg config.GraphConfig) (graph.Client, error) {
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	})
	if err != nil {
		return nil, fmt.Errorf("create graph client: %w", err)
	}
	return client, nil
}
