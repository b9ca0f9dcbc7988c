package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/reelpath/internal/cache"
	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/metrics"
	"github.com/vanshika/reelpath/internal/search"
)

type stubSearcher struct {
	requests []search.Request
	result   search.Result
	err      error
}

func (s *stubSearcher) Search(_ context.Context, req search.Request) (search.Result, error) {
	s.requests = append(s.requests, req)
	return s.result, s.err
}

func newTestService(engine Searcher, rec *metrics.Recorder) *ConnectionService {
	svc := NewConnectionService(engine, logging.Discard(), rec)
	svc.idFn = func() string { return "search-1" }
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })
	return svc
}

func sampleEngine() *search.Engine {
	src := catalog.NewMemorySource(catalog.Dataset{Movies: []domain.CatalogMovie{
		{ID: "603", Title: "The Matrix", Cast: []domain.ActorRef{{ID: "6384", Name: "Keanu Reeves"}}},
		{ID: "1359", Title: "The Devil's Advocate", Cast: []domain.ActorRef{
			{ID: "6384", Name: "Keanu Reeves"},
			{ID: "1158", Name: "Al Pacino"},
		}},
		{ID: "949", Title: "Heat", Cast: []domain.ActorRef{{ID: "1158", Name: "Al Pacino"}}},
		{ID: "1", Title: "Island", Cast: []domain.ActorRef{{ID: "9", Name: "Nobody"}}},
	}})
	provider := cache.NewCredits(catalog.Absorb(src, logging.Discard(), nil))
	return search.New(provider)
}

func TestFindConnectionFound(t *testing.T) {
	rec := metrics.New()
	svc := newTestService(sampleEngine(), rec)

	conn, err := svc.FindConnection(context.Background(), ConnectionRequest{
		Start:  "  The   Matrix ",
		Target: "Heat",
	})
	require.NoError(t, err)

	assert.Equal(t, "search-1", conn.SearchID)
	assert.Equal(t, search.OutcomeFound, conn.Outcome)
	assert.Equal(t, "The Matrix", conn.Start)
	assert.Equal(t, []string{
		"The Matrix",
		"Keanu Reeves -> The Devil's Advocate",
		"Al Pacino -> Heat",
	}, conn.Path)
	assert.Equal(t, 2, conn.Hops)
	assert.Equal(t, "The Matrix -> Keanu Reeves -> The Devil's Advocate -> Al Pacino -> Heat", conn.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Searches.WithLabelValues("found")))
}

func TestFindConnectionTerminalOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		target  string
		outcome search.Outcome
		message string
	}{
		{"same movie", "heat", "HEAT", search.OutcomeSameMovie, "Start and target movie are the same: 'Heat'"},
		{"unresolved", "Casablanca", "Heat", search.OutcomeUnresolved, "Could not find movie 'Casablanca'"},
		{"exhausted", "Island", "Heat", search.OutcomeExhausted, "No connection found between 'Island' and 'Heat' via actors."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(sampleEngine(), nil)
			conn, err := svc.FindConnection(context.Background(), ConnectionRequest{Start: tc.start, Target: tc.target})
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, conn.Outcome)
			assert.Equal(t, tc.message, conn.Message)
			assert.NotNil(t, conn.Path)
		})
	}
}

func TestFindConnectionValidation(t *testing.T) {
	stub := &stubSearcher{}
	svc := newTestService(stub, nil)

	_, err := svc.FindConnection(context.Background(), ConnectionRequest{Start: "  ", Target: "Heat"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorContains(t, err, "Please enter both movie titles.")

	_, err = svc.FindConnection(context.Background(), ConnectionRequest{
		Start:  strings.Repeat("x", 300),
		Target: "Heat",
	})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorContains(t, err, "start must be at most 256 characters")

	assert.Empty(t, stub.requests, "invalid requests never reach the engine")
}

func TestFindConnectionPropagatesContextErrors(t *testing.T) {
	stub := &stubSearcher{err: context.DeadlineExceeded}
	svc := newTestService(stub, nil)

	_, err := svc.FindConnection(context.Background(), ConnectionRequest{Start: "Heat", Target: "Ronin"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
}

func TestFindConnectionForwardsObserver(t *testing.T) {
	var seen []string
	svc := newTestService(sampleEngine(), nil)

	_, err := svc.FindConnection(context.Background(), ConnectionRequest{
		Start:    "The Matrix",
		Target:   "Heat",
		Observer: func(p search.Progress) { seen = append(seen, p.Movie.Title) },
	})
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", seen[0])
}
