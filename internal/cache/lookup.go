// Package cache memoizes catalog lookups for the lifetime of the process.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/vanshika/reelpath/internal/metrics"
)

// FetchFunc produces the value for a key on a cache miss.
type FetchFunc[V any] func(ctx context.Context) V

// Stats is a point-in-time view of a Lookup.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Fetches int64 `json:"fetches"`
	Entries int   `json:"entries"`
}

// Lookup is an unbounded memo keyed by string. The first Get for a key runs
// the fetch and stores its result, empty or not; every later Get returns the
// stored value. Concurrent Gets for a key that is not yet stored share one
// in-flight fetch, so the fetch runs at most once per key.
//
// There is no eviction and no expiry. Stored values are shared between
// callers and must not be modified.
type Lookup[V any] struct {
	name string
	rec  *metrics.Recorder

	mu      sync.RWMutex
	entries map[string]V
	flight  singleflight.Group

	hits    atomic.Int64
	misses  atomic.Int64
	fetches atomic.Int64
}

// NewLookup creates an empty Lookup. The name labels its metrics.
func NewLookup[V any](name string, rec *metrics.Recorder) *Lookup[V] {
	return &Lookup[V]{
		name:    name,
		rec:     rec,
		entries: make(map[string]V),
	}
}

// Get returns the stored value for key, fetching it on first use.
//
// The shared fetch runs under the context of the caller that started it. If
// that context is cancelled the result is not stored, and callers whose own
// context is still live fetch again rather than use it.
func (l *Lookup[V]) Get(ctx context.Context, key string, fetch FetchFunc[V]) V {
	if v, ok := l.Peek(key); ok {
		l.hits.Add(1)
		l.rec.ObserveCacheLookup(l.name, true, l.Len())
		return v
	}

	l.misses.Add(1)
	for {
		res, _, _ := l.flight.Do(key, func() (any, error) {
			// A previous flight may have stored the key between Peek and Do.
			if v, ok := l.Peek(key); ok {
				return flightResult[V]{value: v, stored: true}, nil
			}
			l.fetches.Add(1)
			v := fetch(ctx)
			if ctx.Err() != nil {
				return flightResult[V]{value: v}, nil
			}
			l.mu.Lock()
			l.entries[key] = v
			l.mu.Unlock()
			return flightResult[V]{value: v, stored: true}, nil
		})
		r := res.(flightResult[V])
		if r.stored || ctx.Err() != nil {
			l.rec.ObserveCacheLookup(l.name, false, l.Len())
			return r.value
		}
	}
}

type flightResult[V any] struct {
	value  V
	stored bool
}

// Peek returns the stored value without fetching.
func (l *Lookup[V]) Peek(key string) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.entries[key]
	return v, ok
}

// Len returns the number of stored keys.
func (l *Lookup[V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Stats returns the current counters.
func (l *Lookup[V]) Stats() Stats {
	return Stats{
		Hits:    l.hits.Load(),
		Misses:  l.misses.Load(),
		Fetches: l.fetches.Load(),
		Entries: l.Len(),
	}
}
