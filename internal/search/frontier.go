package search

import "github.com/vanshika/reelpath/internal/domain"

// Side names one half of a bidirectional search.
type Side int

const (
	SideStart Side = iota
	SideTarget
)

func (s Side) String() string {
	if s == SideTarget {
		return "target"
	}
	return "start"
}

// trail is one discovered movie plus the way it was reached from its side's
// root. Trails are parent-linked so recording a discovery never copies the
// path walked so far.
type trail struct {
	movie  domain.MovieRef
	via    domain.ActorRef // actor shared with parent.movie; zero at the root
	parent *trail
	depth  int
}

// path renders the walk from the root to t.
func (t *trail) path() domain.Path {
	p := domain.Path{
		Movies: make([]domain.MovieRef, t.depth+1),
		Actors: make([]domain.ActorRef, t.depth),
	}
	for n := t; n != nil; n = n.parent {
		p.Movies[n.depth] = n.movie
		if n.parent != nil {
			p.Actors[n.depth-1] = n.via
		}
	}
	return p
}

// frontier is a FIFO of trails awaiting expansion together with the visited
// map of its side. A visited entry is never replaced once set; under BFS
// order the first trail recorded for a movie is a shortest one from the root.
type frontier struct {
	side    Side
	queue   []*trail
	head    int
	visited map[string]*trail
}

func newFrontier(side Side, root domain.MovieRef) *frontier {
	t := &trail{movie: root}
	return &frontier{
		side:    side,
		queue:   []*trail{t},
		visited: map[string]*trail{root.ID: t},
	}
}

func (f *frontier) empty() bool {
	return f.head >= len(f.queue)
}

func (f *frontier) pending() int {
	return len(f.queue) - f.head
}

func (f *frontier) pop() *trail {
	t := f.queue[f.head]
	f.queue[f.head] = nil
	f.head++
	if f.head > 64 && f.head*2 > len(f.queue) {
		f.queue = append(f.queue[:0], f.queue[f.head:]...)
		f.head = 0
	}
	return t
}

// lookup returns the trail recorded for a movie on this side.
func (f *frontier) lookup(movieID string) (*trail, bool) {
	t, ok := f.visited[movieID]
	return t, ok
}

// visit records t and enqueues it unless its movie is already visited.
func (f *frontier) visit(t *trail) bool {
	if _, seen := f.visited[t.movie.ID]; seen {
		return false
	}
	f.visited[t.movie.ID] = t
	f.queue = append(f.queue, t)
	return true
}
