package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/config"
	"github.com/vanshika/reelpath/internal/graph"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/search"
)

const catalogYAML = `
movies:
  - id: "949"
    title: Heat
    cast:
      - {id: "1158", name: Al Pacino}
      - {id: "380", name: Robert De Niro}
  - id: "8195"
    title: Ronin
    cast:
      - {id: "380", name: Robert De Niro}
`

func datasetConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))
	return config.Config{
		Catalog: config.CatalogConfig{Source: config.SourceDataset, DatasetPath: path},
		Search:  config.SearchConfig{FanOut: 1, CacheCast: true},
	}
}

func TestBuildDatasetStack(t *testing.T) {
	ctx := context.Background()
	stack, err := Build(ctx, datasetConfig(t), logging.Discard())
	require.NoError(t, err)
	defer stack.Close(ctx)

	assert.IsType(t, &catalog.MemorySource{}, stack.Source)
	assert.Nil(t, stack.Health)

	res, err := stack.Engine.Search(ctx, search.Request{Start: "Heat", Target: "Ronin"})
	require.NoError(t, err)
	assert.Equal(t, search.OutcomeFound, res.Outcome)
	assert.NotNil(t, stack.Credits.Stats().Cast, "cast caching follows config")
}

func TestBuildAppliesExtraOptions(t *testing.T) {
	var steps int
	stack, err := Build(context.Background(), datasetConfig(t), logging.Discard(),
		search.WithObserver(func(search.Progress) { steps++ }))
	require.NoError(t, err)

	res, err := stack.Engine.Search(context.Background(), search.Request{Start: "Heat", Target: "Ronin"})
	require.NoError(t, err)
	assert.Equal(t, res.Steps, steps)
}

func TestBuildTMDBStack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/configuration" {
			_, _ = w.Write([]byte(`{"images":{}}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"id":949,"title":"Heat"}]}`))
	}))
	defer srv.Close()

	cfg := config.Config{
		Catalog: config.CatalogConfig{Source: config.SourceTMDB},
		TMDB:    config.TMDBConfig{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 100, Burst: 10},
		Search:  config.SearchConfig{FanOut: 4},
	}
	stack, err := Build(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	assert.IsType(t, &catalog.TMDBClient{}, stack.Source)
	movie, ok := stack.Credits.ResolveTitle(context.Background(), "heat")
	require.True(t, ok)
	assert.Equal(t, "949", movie.ID)

	require.NotNil(t, stack.Health)
	assert.NoError(t, stack.Health.Probe(context.Background()))
}

func TestTMDBHealthReportsRejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := config.Config{
		Catalog: config.CatalogConfig{Source: config.SourceTMDB},
		TMDB:    config.TMDBConfig{APIKey: "bad", BaseURL: srv.URL, RequestsPerSecond: 100, Burst: 10},
		Search:  config.SearchConfig{FanOut: 1},
	}
	stack, err := Build(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	require.NotNil(t, stack.Health)
	assert.Error(t, stack.Health.Probe(context.Background()))
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Build(ctx, config.Config{Catalog: config.CatalogConfig{Source: config.SourceDataset, DatasetPath: "missing.yaml"}}, logging.Discard())
	assert.ErrorContains(t, err, "load catalog dataset")

	_, err = Build(ctx, config.Config{Catalog: config.CatalogConfig{Source: config.SourceGraph}}, logging.Discard())
	assert.ErrorIs(t, err, graph.ErrMissingURI)

	_, err = Build(ctx, config.Config{Catalog: config.CatalogConfig{Source: "imdb"}}, logging.Discard())
	assert.ErrorContains(t, err, `unknown catalog source "imdb"`)
}

func TestMetricsHandlerFollowsConfig(t *testing.T) {
	stack, err := Build(context.Background(), datasetConfig(t), logging.Discard())
	require.NoError(t, err)

	assert.Nil(t, stack.MetricsHandler(config.HTTPConfig{}))
	assert.NotNil(t, stack.MetricsHandler(config.HTTPConfig{MetricsEnabled: true}))
}
