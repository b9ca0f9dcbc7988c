package cache

import (
	"context"

	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/metrics"
)

// Cache names used as metric labels.
const (
	NameCredits = "credits"
	NameCast    = "cast"
)

// Credits is a catalog.Provider that memoizes actor credit listings in front
// of another provider. Movie casts can be memoized as well when enabled.
// Title resolution always goes to the underlying provider.
//
// One Credits value is meant to live for the whole process and be shared by
// every search.
type Credits struct {
	provider catalog.Provider
	credits  *Lookup[[]domain.MovieRef]
	cast     *Lookup[[]domain.ActorRef]
}

var _ catalog.Provider = (*Credits)(nil)

// CreditsStats reports both caches; Cast is nil when cast caching is off.
type CreditsStats struct {
	Credits Stats  `json:"credits"`
	Cast    *Stats `json:"cast,omitempty"`
}

// Option configures Credits.
type Option func(*options)

type options struct {
	cacheCast bool
	rec       *metrics.Recorder
}

// WithCastCaching also memoizes ListCast per movie ID.
func WithCastCaching(enabled bool) Option {
	return func(o *options) { o.cacheCast = enabled }
}

// WithRecorder reports hits and misses to rec.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(o *options) { o.rec = rec }
}

// NewCredits wraps provider.
func NewCredits(provider catalog.Provider, opts ...Option) *Credits {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := &Credits{
		provider: provider,
		credits:  NewLookup[[]domain.MovieRef](NameCredits, o.rec),
	}
	if o.cacheCast {
		c.cast = NewLookup[[]domain.ActorRef](NameCast, o.rec)
	}
	return c
}

// GetCredits returns the actor's credits, calling the provider only the first
// time the actor is seen.
func (c *Credits) GetCredits(ctx context.Context, actorID string) []domain.MovieRef {
	return c.credits.Get(ctx, actorID, func(ctx context.Context) []domain.MovieRef {
		return c.provider.ListCredits(ctx, actorID)
	})
}

func (c *Credits) ResolveTitle(ctx context.Context, title string) (domain.MovieRef, bool) {
	return c.provider.ResolveTitle(ctx, title)
}

func (c *Credits) ListCast(ctx context.Context, movieID string) []domain.ActorRef {
	if c.cast == nil {
		return c.provider.ListCast(ctx, movieID)
	}
	return c.cast.Get(ctx, movieID, func(ctx context.Context) []domain.ActorRef {
		return c.provider.ListCast(ctx, movieID)
	})
}

func (c *Credits) ListCredits(ctx context.Context, actorID string) []domain.MovieRef {
	return c.GetCredits(ctx, actorID)
}

// Stats reports cache counters.
func (c *Credits) Stats() CreditsStats {
	stats := CreditsStats{Credits: c.credits.Stats()}
	if c.cast != nil {
		cast := c.cast.Stats()
		stats.Cast = &cast
	}
	return stats
}
