// Package search finds a chain of shared actors linking two movies.
//
// The movie graph is never materialized. Movies are adjacent when an actor
// appears in both, and adjacency is discovered through catalog lookups: the
// cast of a movie, then the credits of each cast member. Since every lookup is
// a remote call and a movie fans out to hundreds of neighbours, the engine runs
// two breadth-first searches, one from each movie, and stops as soon as either
// reaches a movie the other has already visited.
//
// The two sides expand one movie at a time, alternately. The first meeting
// point found wins, with ties broken by catalog ordering, so the path is short
// but not guaranteed to be the shortest when the frontiers are unbalanced.
package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/domain"
)

// Progress describes the movie about to be expanded.
type Progress struct {
	Side  Side
	Step  int
	Depth int
	Movie domain.MovieRef
	// Pending is the number of movies still queued on this side.
	Pending int
}

// Observer receives progress notifications. It runs on the search goroutine
// and must return quickly.
type Observer func(Progress)

// Request names the two movies to connect.
type Request struct {
	Start  string
	Target string
	// Observer, when set, is called once per expansion step in addition to
	// the engine-wide observer.
	Observer Observer
}

// Engine runs bidirectional searches over a catalog provider. Pass a provider
// that memoizes credits (see the cache package); the engine itself keeps no
// state between searches and is safe for concurrent use.
type Engine struct {
	provider catalog.Provider
	observer Observer
	fanOut   int
	maxSteps int
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets an observer notified on every expansion step of every search.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithFanOut fetches the credits of up to n cast members concurrently within
// one step. Results are still scanned in cast order, so the path found is the
// same as with n == 1. The whole cast is fetched before scanning, so a step
// that meets the other side early may make lookups a sequential step skips.
func WithFanOut(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fanOut = n
		}
	}
}

// WithMaxSteps stops a search after n expansions. Zero means no limit.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxSteps = n
		}
	}
}

// New returns an Engine reading from provider.
func New(provider catalog.Provider, opts ...Option) *Engine {
	e := &Engine{provider: provider, fanOut: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search resolves both titles and searches for a connecting path.
//
// A title that cannot be resolved yields a *ResolutionError and no expansion.
// Every other terminal state is a Result. The only other errors come from ctx,
// which is checked before each step.
func (e *Engine) Search(ctx context.Context, req Request) (Result, error) {
	res := Result{Start: req.Start, Target: req.Target}

	start, err := e.resolve(ctx, req.Start, SideStart)
	if err != nil {
		return res, err
	}
	target, err := e.resolve(ctx, req.Target, SideTarget)
	if err != nil {
		return res, err
	}
	res.StartMovie, res.TargetMovie = start, target

	if start.ID == target.ID {
		res.Outcome = OutcomeSameMovie
		res.Path = domain.SingleMoviePath(start)
		return res, nil
	}

	sides := [2]*frontier{
		newFrontier(SideStart, start),
		newFrontier(SideTarget, target),
	}
	notify := e.notifier(req.Observer)

	for turn := SideStart; ; turn = 1 - turn {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if sides[SideStart].empty() || sides[SideTarget].empty() {
			res.Outcome = OutcomeExhausted
			return res, nil
		}
		if e.maxSteps > 0 && res.Steps >= e.maxSteps {
			res.Outcome = OutcomeExhausted
			res.Truncated = true
			return res, nil
		}

		res.Steps++
		step := e.step(ctx, sides[turn], sides[1-turn], func(t *trail) {
			if notify != nil {
				notify(Progress{
					Side:    turn,
					Step:    res.Steps,
					Depth:   t.depth,
					Movie:   t.movie,
					Pending: sides[turn].pending(),
				})
			}
		})
		if step.Kind == StepFound {
			res.Outcome = OutcomeFound
			res.Path = step.Path
			if turn == SideTarget {
				res.Path = step.Path.Reverse()
			}
			return res, nil
		}
	}
}

func (e *Engine) resolve(ctx context.Context, title string, side Side) (domain.MovieRef, error) {
	movie, ok := e.provider.ResolveTitle(ctx, title)
	if ok {
		return movie, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.MovieRef{}, err
	}
	return domain.MovieRef{}, &ResolutionError{Title: title, Side: side}
}

func (e *Engine) notifier(extra Observer) Observer {
	switch {
	case e.observer == nil:
		return extra
	case extra == nil:
		return e.observer
	default:
		return func(p Progress) {
			e.observer(p)
			extra(p)
		}
	}
}

// step expands the head of self. A credited movie already visited by other is
// a meeting point and ends the step; an unseen one is recorded and enqueued.
func (e *Engine) step(ctx context.Context, self, other *frontier, onExpand func(*trail)) StepResult {
	if self.empty() {
		return StepResult{Kind: StepExhausted}
	}
	node := self.pop()
	if onExpand != nil {
		onExpand(node)
	}
	result := StepResult{Kind: StepContinue, Expanded: node.movie}

	cast := e.provider.ListCast(ctx, node.movie.ID)
	if len(cast) == 0 {
		return result
	}

	var prefetched [][]domain.MovieRef
	if e.fanOut > 1 && len(cast) > 1 {
		prefetched = e.prefetchCredits(ctx, cast)
	}

	for i, actor := range cast {
		var credits []domain.MovieRef
		if prefetched != nil {
			credits = prefetched[i]
		} else {
			credits = e.provider.ListCredits(ctx, actor.ID)
		}

		for _, movie := range credits {
			if meet, ok := other.lookup(movie.ID); ok {
				result.Kind = StepFound
				result.Path = join(node, actor, movie, meet)
				return result
			}
			self.visit(&trail{movie: movie, via: actor, parent: node, depth: node.depth + 1})
		}
	}
	return result
}

// prefetchCredits looks up every cast member's credits with at most fanOut
// lookups in flight, keeping cast order in the returned slice.
func (e *Engine) prefetchCredits(ctx context.Context, cast []domain.ActorRef) [][]domain.MovieRef {
	out := make([][]domain.MovieRef, len(cast))
	var g errgroup.Group
	g.SetLimit(e.fanOut)
	for i, actor := range cast {
		g.Go(func() error {
			out[i] = e.provider.ListCredits(ctx, actor.ID)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// join builds the walk root(self) .. node, actor, movie, then back along the
// other side's trail for movie to its root.
func join(node *trail, actor domain.ActorRef, movie domain.MovieRef, meet *trail) domain.Path {
	p := node.path()
	p.Movies = append(p.Movies, movie)
	p.Actors = append(p.Actors, actor)
	for t := meet; t.parent != nil; t = t.parent {
		p.Actors = append(p.Actors, t.via)
		p.Movies = append(p.Movies, t.parent.movie)
	}
	return p
}
