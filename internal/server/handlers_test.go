package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/reelpath/internal/cache"
	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/config"
	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/metrics"
	"github.com/vanshika/reelpath/internal/search"
	"github.com/vanshika/reelpath/internal/service"
)

type fixture struct {
	handler http.Handler
	credits *cache.Credits
}

func newFixture(t *testing.T, health HealthService) fixture {
	t.Helper()
	src := catalog.NewMemorySource(catalog.Dataset{Movies: []domain.CatalogMovie{
		{ID: "949", Title: "Heat", Cast: []domain.ActorRef{{ID: "380", Name: "Robert De Niro"}}},
		{ID: "8195", Title: "Ronin", Cast: []domain.ActorRef{{ID: "380", Name: "Robert De Niro"}}},
	}})
	logger := logging.Discard()
	rec := metrics.New()
	credits := cache.NewCredits(catalog.Absorb(src, logger, rec), cache.WithRecorder(rec))
	svc := service.NewConnectionService(search.New(credits), logger, rec)

	handler := NewRouter(logger, RouterDependencies{
		Health:         health,
		API:            NewAPIHandlers(logger, svc, credits, time.Minute),
		Metrics:        rec.Handler(),
		Source:         config.SourceDataset,
		AllowedOrigins: []string{"https://reelpath.example"},
	})
	return fixture{handler: handler, credits: credits}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestConnectionsFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/connections?from=Heat&to=Ronin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var conn service.Connection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conn))
	assert.Equal(t, search.OutcomeFound, conn.Outcome)
	assert.Equal(t, []string{"Heat", "Robert De Niro -> Ronin"}, conn.Path)
	assert.Equal(t, 1, conn.Hops)
	assert.NotEmpty(t, conn.SearchID)
}

func TestConnectionsPost(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/connections", `{"from":"Heat","to":"Heat"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var conn service.Connection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conn))
	assert.Equal(t, search.OutcomeSameMovie, conn.Outcome)

	rec = f.do(t, http.MethodPost, "/connections", `{"from":"Heat","unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectionsTerminalOutcomesAre200(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/connections?from=Casablanca&to=Ronin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not find movie 'Casablanca'")
	assert.Contains(t, rec.Body.String(), `"outcome":"unresolved"`)
}

func TestConnectionsValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/connections?from=Heat", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Please enter both movie titles.", payload["error"])

	rec = f.do(t, http.MethodDelete, "/connections", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

type finderFunc func(context.Context, service.ConnectionRequest) (service.Connection, error)

func (f finderFunc) FindConnection(ctx context.Context, req service.ConnectionRequest) (service.Connection, error) {
	return f(ctx, req)
}

func TestConnectionsErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("search x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			finder := finderFunc(func(context.Context, service.ConnectionRequest) (service.Connection, error) {
				return service.Connection{}, tc.err
			})
			handlers := NewAPIHandlers(logging.Discard(), finder, nil, time.Second)

			rec := httptest.NewRecorder()
			handlers.handleConnections(rec, httptest.NewRequest(http.MethodGet, "/connections?from=a&to=b", nil))

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestConnectionsAppliesSearchTimeout(t *testing.T) {
	var deadline time.Time
	finder := finderFunc(func(ctx context.Context, _ service.ConnectionRequest) (service.Connection, error) {
		deadline, _ = ctx.Deadline()
		return service.Connection{}, nil
	})
	handlers := NewAPIHandlers(logging.Discard(), finder, nil, 5*time.Second)

	rec := httptest.NewRecorder()
	handlers.handleConnections(rec, httptest.NewRequest(http.MethodGet, "/connections?from=a&to=b", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestCacheStats(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodGet, "/connections?from=Heat&to=Ronin", "")

	rec := f.do(t, http.MethodGet, "/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats cache.CreditsStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, f.credits.Stats().Credits.Entries, stats.Credits.Entries)
	assert.Positive(t, stats.Credits.Fetches)
}

func TestHealthz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rec := newFixture(t, nil).do(t, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"source":"dataset"`)
	})

	t.Run("degraded", func(t *testing.T) {
		probe := HealthFunc(func(context.Context) error { return errors.New("bolt unreachable") })
		rec := newFixture(t, probe).do(t, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "bolt unreachable")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodGet, "/connections?from=Heat&to=Ronin", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `reelpath_search_total{outcome="found"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/connections", nil)
	req.Header.Set("Origin", "https://reelpath.example")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://reelpath.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/connections", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestParseAllowedOrigins(t *testing.T) {
	assert.Nil(t, ParseAllowedOrigins(""))
	assert.Equal(t, []string{"a", "b"}, ParseAllowedOrigins(" a, ,b "))
}

func TestServerRunStopsOnCancel(t *testing.T) {
	srv := New(logging.Discard(), config.HTTPConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ShutdownTimeout: time.Second,
	}, http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
