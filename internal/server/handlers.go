package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vanshika/reelpath/internal/cache"
	"github.com/vanshika/reelpath/internal/service"
)

// ConnectionFinder is the service contract behind /connections.
type ConnectionFinder interface {
	FindConnection(ctx context.Context, req service.ConnectionRequest) (service.Connection, error)
}

// StatsProvider exposes credit cache statistics.
type StatsProvider interface {
	Stats() cache.CreditsStats
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger        *slog.Logger
	connections   ConnectionFinder
	stats         StatsProvider
	searchTimeout time.Duration
}

// NewAPIHandlers constructs an APIHandlers instance. A zero searchTimeout
// leaves searches bounded only by the request context.
func NewAPIHandlers(logger *slog.Logger, connections ConnectionFinder, stats StatsProvider, searchTimeout time.Duration) *APIHandlers {
	return &APIHandlers{
		logger:        logger,
		connections:   connections,
		stats:         stats,
		searchTimeout: searchTimeout,
	}
}

type connectionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (h *APIHandlers) handleConnections(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req = connectionRequest{From: q.Get("from"), To: q.Get("to")}
	case http.MethodPost:
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
			return
		}
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	ctx := r.Context()
	if h.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.searchTimeout)
		defer cancel()
	}

	conn, err := h.connections.FindConnection(ctx, service.ConnectionRequest{
		Start:  req.From,
		Target: req.To,
	})
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, conn)
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": "))
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("connection search timed out", "from", req.From, "to", req.To, "timeout", h.searchTimeout)
		writeError(w, http.StatusGatewayTimeout, "search timed out")
	case errors.Is(err, context.Canceled):
		h.logger.Info("client went away during search", "from", req.From, "to", req.To)
	default:
		h.logger.Error("connection search failed", "error", err, "from", req.From, "to", req.To)
		writeError(w, http.StatusInternalServerError, "failed to search for a connection")
	}
}

func (h *APIHandlers) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if h.stats == nil {
		writeError(w, http.StatusNotFound, "cache statistics are not available")
		return
	}
	respondJSON(w, http.StatusOK, h.stats.Stats())
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
