package generator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/reelpath/internal/cache"
	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/search"
)

func smallConfig() Config {
	return Config{
		NumMovies:    200,
		MaxActors:    300,
		CastMin:      2,
		CastMax:      6,
		RecastChance: 0.7,
		Islands:      1,
		Seed:         7,
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateShape(t *testing.T) {
	cfg := smallConfig()
	ds, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Movies, cfg.NumMovies)
	require.NoError(t, ds.Validate())

	titles := map[string]bool{}
	actors := map[string]bool{}
	for _, m := range ds.Movies {
		assert.False(t, titles[m.Title], "duplicate title %q", m.Title)
		titles[m.Title] = true
		assert.LessOrEqual(t, len(m.Cast), cfg.CastMax)
		assert.NotEmpty(t, m.Cast)
		for _, a := range m.Cast {
			actors[a.ID] = true
		}
	}
	assert.LessOrEqual(t, len(actors), cfg.MaxActors)
}

func TestGenerateIslandsAreDisconnected(t *testing.T) {
	cfg := smallConfig()
	cfg.NumMovies = 40
	cfg.Islands = 2
	ds, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	src := catalog.NewMemorySource(ds)
	engine := search.New(cache.NewCredits(catalog.Absorb(src, logging.Discard(), nil)))

	// Movies alternate between islands.
	res, err := engine.Search(context.Background(), search.Request{
		Start:  ds.Movies[0].Title,
		Target: ds.Movies[1].Title,
	})
	require.NoError(t, err)
	assert.Equal(t, search.OutcomeExhausted, res.Outcome)
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(smallConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDatasetRoundTrip(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "catalog.yaml")
	require.NoError(t, WriteDataset(ds, path))

	loaded, err := catalog.LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, ds, loaded)
}
