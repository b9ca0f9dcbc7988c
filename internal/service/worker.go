package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/graph"
)

// MovieStore is the storage contract required by the bulk ingestor.
type MovieStore interface {
	UpsertMovie(ctx context.Context, movie domain.CatalogMovie) (graph.Counters, error)
}

// IngestReport summarizes a bulk ingestion run.
type IngestReport struct {
	Movies  int
	Written int
	Failed  int
	// Changes sums what the successful writes changed in the store.
	Changes graph.Counters
}

// BulkIngestor loads large movie catalogs into a store using a bounded worker pool.
type BulkIngestor struct {
	store   MovieStore
	workers int
	logger  *slog.Logger
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(store MovieStore, workers int, logger *slog.Logger) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkIngestor{
		store:   store,
		workers: workers,
		logger:  logger.With("component", "ingest"),
	}
}

// IngestMovies upserts every movie, continuing past individual failures.
// The returned error joins every failed upsert, or is the context error when
// the run was cut short.
func (bi *BulkIngestor) IngestMovies(ctx context.Context, movies []domain.CatalogMovie) (IngestReport, error) {
	report := IngestReport{Movies: len(movies)}
	if len(movies) == 0 {
		return report, nil
	}

	var (
		mu      sync.Mutex
		errs    []error
		written atomic.Int64
		g       errgroup.Group
	)
	g.SetLimit(bi.workers)

	for _, movie := range movies {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			changes, err := bi.store.UpsertMovie(ctx, movie)
			mu.Lock()
			if err != nil {
				errs = append(errs, fmt.Errorf("movie %s (%s): %w", movie.ID, movie.Title, err))
				mu.Unlock()
				return nil
			}
			report.Changes = report.Changes.Add(changes)
			mu.Unlock()
			if n := written.Add(1); n%500 == 0 {
				bi.logger.Info("ingest progress", "written", n, "total", len(movies))
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Written = int(written.Load())
	report.Failed = len(errs)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, errors.Join(errs...)
}
