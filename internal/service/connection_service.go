package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/reelpath/internal/metrics"
	"github.com/vanshika/reelpath/internal/search"
)

// ErrInvalidRequest marks requests rejected before any catalog lookup.
var ErrInvalidRequest = errors.New("invalid connection request")

// Searcher is the search contract required by the connection service.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
}

// ConnectionRequest names the two movies to connect.
type ConnectionRequest struct {
	Start  string `json:"start" validate:"required,max=256"`
	Target string `json:"target" validate:"required,max=256"`
	// Observer receives per-step progress for this request only.
	Observer search.Observer `json:"-" validate:"-"`
}

// Connection is the answer returned to API and CLI callers.
type Connection struct {
	SearchID    string         `json:"searchId"`
	Outcome     search.Outcome `json:"outcome"`
	Message     string         `json:"message"`
	Start       string         `json:"start"`
	Target      string         `json:"target"`
	Path        []string       `json:"path"`
	Hops        int            `json:"hops"`
	Steps       int            `json:"steps"`
	Truncated   bool           `json:"truncated,omitempty"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt time.Time      `json:"completedAt"`
}

// ConnectionService validates requests, runs searches, and reports outcomes.
type ConnectionService struct {
	engine Searcher
	logger *slog.Logger
	rec    *metrics.Recorder
	nowFn  func() time.Time
	idFn   func() string
}

// NewConnectionService constructs a ConnectionService. logger and rec may be nil.
func NewConnectionService(engine Searcher, logger *slog.Logger, rec *metrics.Recorder) *ConnectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionService{
		engine: engine,
		logger: logger.With("component", "connections"),
		rec:    rec,
		nowFn:  time.Now,
		idFn:   uuid.NewString,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *ConnectionService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// FindConnection searches for a chain of shared actors between two titles.
//
// Every terminal search state, including an unresolvable title, is reported
// as a Connection. Errors are returned for invalid requests (wrapping
// ErrInvalidRequest) and for context cancellation or deadline expiry.
func (s *ConnectionService) FindConnection(ctx context.Context, req ConnectionRequest) (Connection, error) {
	req.Start = sanitizeString(req.Start)
	req.Target = sanitizeString(req.Target)
	if err := validate.Struct(req); err != nil {
		return Connection{}, fmt.Errorf("%w: %s", ErrInvalidRequest, describeValidation(err))
	}

	conn := Connection{
		SearchID:  s.idFn(),
		Start:     req.Start,
		Target:    req.Target,
		StartedAt: s.nowFn().UTC(),
	}
	logger := s.logger.With("searchId", conn.SearchID)
	logger.Info("search started", "start", req.Start, "target", req.Target)

	began := time.Now()
	res, err := s.engine.Search(ctx, search.Request{
		Start:    req.Start,
		Target:   req.Target,
		Observer: req.Observer,
	})
	elapsed := time.Since(began)
	conn.CompletedAt = s.nowFn().UTC()

	var resErr *search.ResolutionError
	switch {
	case errors.As(err, &resErr):
		conn.Outcome = search.OutcomeUnresolved
		conn.Message = resErr.Error()
	case err != nil:
		logger.Warn("search aborted", "error", err, "elapsed", elapsed)
		s.rec.ObserveSearch("aborted", res.Steps, elapsed)
		return conn, fmt.Errorf("search %s: %w", conn.SearchID, err)
	default:
		conn.Outcome = res.Outcome
		conn.Message = res.Message()
		conn.Path = res.Path.Steps()
		conn.Hops = res.Path.Hops()
		conn.Steps = res.Steps
		conn.Truncated = res.Truncated
	}
	if conn.Path == nil {
		conn.Path = []string{}
	}

	s.rec.ObserveSearch(string(conn.Outcome), conn.Steps, elapsed)
	logger.Info("search finished",
		"outcome", conn.Outcome,
		"steps", conn.Steps,
		"hops", conn.Hops,
		"truncated", conn.Truncated,
		"elapsed", elapsed,
	)
	return conn, nil
}
