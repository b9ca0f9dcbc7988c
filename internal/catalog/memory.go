package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/vanshika/reelpath/internal/domain"
)

// MemorySource serves lookups from an in-memory dataset. It backs offline
// runs of the CLI and doubles as a scripted source in tests: it counts every
// call and can be told to fail lookups for specific IDs.
type MemorySource struct {
	movies  []domain.MovieRef
	cast    map[string][]domain.ActorRef
	credits map[string][]domain.MovieRef

	mu       sync.Mutex
	calls    map[string]map[string]int
	failures map[string]error
}

// NewMemorySource indexes the dataset. Credits keep dataset order.
func NewMemorySource(ds Dataset) *MemorySource {
	s := &MemorySource{
		movies:   make([]domain.MovieRef, 0, len(ds.Movies)),
		cast:     make(map[string][]domain.ActorRef, len(ds.Movies)),
		credits:  make(map[string][]domain.MovieRef),
		calls:    map[string]map[string]int{OpResolve: {}, OpCast: {}, OpCredits: {}},
		failures: make(map[string]error),
	}
	for _, m := range ds.Movies {
		ref := m.Ref()
		s.movies = append(s.movies, ref)
		s.cast[m.ID] = append([]domain.ActorRef(nil), m.Cast...)
		for _, a := range m.Cast {
			s.credits[a.ID] = append(s.credits[a.ID], ref)
		}
	}
	return s
}

// SetCredits overrides an actor's credit list, for catalogs whose credit
// listings disagree with movie casts.
func (s *MemorySource) SetCredits(actorID string, movies []domain.MovieRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits[actorID] = append([]domain.MovieRef(nil), movies...)
}

// Fail makes every later lookup keyed by id return err.
func (s *MemorySource) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = err
}

// Calls returns how many times op was invoked for key.
func (s *MemorySource) Calls(op, key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op][key]
}

// TotalCalls returns how many times op was invoked for any key.
func (s *MemorySource) TotalCalls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls[op] {
		total += n
	}
	return total
}

// SearchMovie prefers a case-insensitive exact title match and falls back to
// the first title containing the query.
func (s *MemorySource) SearchMovie(ctx context.Context, title string) (domain.MovieRef, error) {
	if err := s.record(ctx, OpResolve, title); err != nil {
		return domain.MovieRef{}, err
	}
	query := strings.ToLower(strings.TrimSpace(title))
	if query == "" {
		return domain.MovieRef{}, ErrNotFound
	}
	for _, m := range s.movies {
		if strings.ToLower(m.Title) == query {
			return m, nil
		}
	}
	for _, m := range s.movies {
		if strings.Contains(strings.ToLower(m.Title), query) {
			return m, nil
		}
	}
	return domain.MovieRef{}, ErrNotFound
}

func (s *MemorySource) MovieCast(ctx context.Context, movieID string) ([]domain.ActorRef, error) {
	if err := s.record(ctx, OpCast, movieID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ActorRef(nil), s.cast[movieID]...), nil
}

func (s *MemorySource) PersonCredits(ctx context.Context, personID string) ([]domain.MovieRef, error) {
	if err := s.record(ctx, OpCredits, personID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MovieRef(nil), s.credits[personID]...), nil
}

func (s *MemorySource) record(ctx context.Context, op, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op][key]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failures[key]
}
