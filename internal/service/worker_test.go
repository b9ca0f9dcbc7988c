package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/graph"
	"github.com/vanshika/reelpath/internal/logging"
)

type stubStore struct {
	mu     sync.Mutex
	movies map[string]domain.CatalogMovie
	failOn map[string]error
}

func (s *stubStore) UpsertMovie(_ context.Context, movie domain.CatalogMovie) (graph.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[movie.ID]; err != nil {
		return graph.Counters{}, err
	}
	if s.movies == nil {
		s.movies = map[string]domain.CatalogMovie{}
	}
	s.movies[movie.ID] = movie
	return graph.Counters{NodesCreated: 1, RelationshipsCreated: len(movie.Cast)}, nil
}

func catalogOf(n int) []domain.CatalogMovie {
	movies := make([]domain.CatalogMovie, n)
	for i := range movies {
		movies[i] = domain.CatalogMovie{ID: fmt.Sprint(i), Title: fmt.Sprintf("Movie %d", i)}
	}
	return movies
}

func TestBulkIngestorWritesEveryMovie(t *testing.T) {
	store := &stubStore{}
	ingestor := NewBulkIngestor(store, 8, logging.Discard())

	report, err := ingestor.IngestMovies(context.Background(), catalogOf(1200))
	require.NoError(t, err)

	assert.Equal(t, IngestReport{
		Movies:  1200,
		Written: 1200,
		Changes: graph.Counters{NodesCreated: 1200},
	}, report)
	assert.Len(t, store.movies, 1200)
}

func TestBulkIngestorCollectsFailures(t *testing.T) {
	boom := errors.New("constraint violation")
	store := &stubStore{failOn: map[string]error{"3": boom, "7": boom}}
	ingestor := NewBulkIngestor(store, 0, logging.Discard())

	report, err := ingestor.IngestMovies(context.Background(), catalogOf(10))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "movie 3 (Movie 3)")
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 8, report.Written)
	assert.Equal(t, 8, report.Changes.NodesCreated, "failed writes add no changes")
}

func TestBulkIngestorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewBulkIngestor(&stubStore{}, 2, logging.Discard()).IngestMovies(ctx, catalogOf(5))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Written)
}

func TestBulkIngestorEmptyInput(t *testing.T) {
	report, err := NewBulkIngestor(&stubStore{}, 2, nil).IngestMovies(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.Movies)
}
