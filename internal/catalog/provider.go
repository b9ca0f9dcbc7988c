// Package catalog defines how movies, casts and credits are looked up and
// supplies the concrete lookup backends.
//
// Backends implement Source and report failures as errors. The search engine
// consumes Provider, whose methods never fail: Absorb adapts a Source into a
// Provider by turning every failure into "no result". A lookup that failed
// because of the network is therefore indistinguishable from a movie with no
// recorded cast, and a search may answer "no connection" under transient
// failures. Retrying transient failures is the Source's job.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/metrics"
)

// ErrNotFound reports that a lookup matched nothing.
var ErrNotFound = errors.New("catalog: not found")

// Lookup operation names, used for logging and metrics labels.
const (
	OpResolve = "resolve"
	OpCast    = "cast"
	OpCredits = "credits"
)

// Provider is the lookup contract the search engine depends on.
type Provider interface {
	// ResolveTitle maps free text to a canonical movie. It reports false on no
	// match and on any failure.
	ResolveTitle(ctx context.Context, title string) (domain.MovieRef, bool)
	// ListCast returns the cast of a movie, or nothing on failure.
	ListCast(ctx context.Context, movieID string) []domain.ActorRef
	// ListCredits returns the movie credits of an actor, or nothing on failure.
	ListCredits(ctx context.Context, actorID string) []domain.MovieRef
}

// Source is implemented by concrete catalog backends.
type Source interface {
	SearchMovie(ctx context.Context, title string) (domain.MovieRef, error)
	MovieCast(ctx context.Context, movieID string) ([]domain.ActorRef, error)
	PersonCredits(ctx context.Context, personID string) ([]domain.MovieRef, error)
}

// Absorb wraps src so that every failure becomes an empty result. Failures are
// logged at warn level and counted; records without an ID or display name are
// dropped.
func Absorb(src Source, logger *slog.Logger, rec *metrics.Recorder) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &absorbing{
		src:    src,
		logger: logger.With("component", "catalog"),
		rec:    rec,
	}
}

type absorbing struct {
	src    Source
	logger *slog.Logger
	rec    *metrics.Recorder
}

func (a *absorbing) ResolveTitle(ctx context.Context, title string) (domain.MovieRef, bool) {
	start := time.Now()
	movie, err := a.src.SearchMovie(ctx, title)
	if err == nil && !movie.Valid() {
		err = errors.New("search returned a movie without id or title")
	}
	if err != nil {
		a.fail(ctx, OpResolve, "title", title, err, start)
		return domain.MovieRef{}, false
	}
	a.rec.ObserveProviderCall(OpResolve, "ok", time.Since(start))
	return movie, true
}

func (a *absorbing) ListCast(ctx context.Context, movieID string) []domain.ActorRef {
	start := time.Now()
	cast, err := a.src.MovieCast(ctx, movieID)
	if err != nil {
		a.fail(ctx, OpCast, "movieId", movieID, err, start)
		return nil
	}

	valid := cast[:0:0]
	for _, actor := range cast {
		if actor.Valid() {
			valid = append(valid, actor)
		}
	}
	a.observeSize(OpCast, len(valid), start)
	return valid
}

func (a *absorbing) ListCredits(ctx context.Context, actorID string) []domain.MovieRef {
	start := time.Now()
	credits, err := a.src.PersonCredits(ctx, actorID)
	if err != nil {
		a.fail(ctx, OpCredits, "actorId", actorID, err, start)
		return nil
	}

	valid := credits[:0:0]
	for _, movie := range credits {
		if movie.Valid() {
			valid = append(valid, movie)
		}
	}
	a.observeSize(OpCredits, len(valid), start)
	return valid
}

func (a *absorbing) observeSize(op string, n int, start time.Time) {
	result := "ok"
	if n == 0 {
		result = "empty"
	}
	a.rec.ObserveProviderCall(op, result, time.Since(start))
}

func (a *absorbing) fail(ctx context.Context, op, key, value string, err error, start time.Time) {
	if errors.Is(err, ErrNotFound) {
		a.rec.ObserveProviderCall(op, "not_found", time.Since(start))
		a.logger.Debug("catalog lookup matched nothing", "operation", op, key, value)
		return
	}
	a.rec.ObserveProviderCall(op, "error", time.Since(start))
	if ctx.Err() != nil {
		a.logger.Debug("catalog lookup abandoned", "operation", op, key, value, "error", err)
		return
	}
	a.logger.Warn("catalog lookup failed, treating as empty", "operation", op, key, value, "error", err)
}
