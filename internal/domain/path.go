package domain

import "strings"

// StepSeparator joins rendered path steps for display.
const StepSeparator = " -> "

// Path is a walk from a start movie to a target movie. Actors[i] appears in
// both Movies[i] and Movies[i+1], so len(Actors) == len(Movies)-1.
type Path struct {
	Movies []MovieRef
	Actors []ActorRef
}

// SingleMoviePath returns the path of a search whose start and target coincide.
func SingleMoviePath(m MovieRef) Path {
	return Path{Movies: []MovieRef{m}}
}

// Hops returns the number of actor edges in the path.
func (p Path) Hops() int {
	return len(p.Actors)
}

// Empty reports whether the path holds no movies at all.
func (p Path) Empty() bool {
	return len(p.Movies) == 0
}

// Start returns the first movie of the path.
func (p Path) Start() MovieRef {
	if p.Empty() {
		return MovieRef{}
	}
	return p.Movies[0]
}

// End returns the last movie of the path.
func (p Path) End() MovieRef {
	if p.Empty() {
		return MovieRef{}
	}
	return p.Movies[len(p.Movies)-1]
}

// Steps renders the path as human-readable hops. The first element is the
// start title alone; every following element reads "<actor> -> <movie>".
func (p Path) Steps() []string {
	if p.Empty() {
		return nil
	}
	steps := make([]string, 0, len(p.Movies))
	steps = append(steps, p.Movies[0].Title)
	for i, actor := range p.Actors {
		if i+1 >= len(p.Movies) {
			break
		}
		steps = append(steps, actor.Name+StepSeparator+p.Movies[i+1].Title)
	}
	return steps
}

// String joins the rendered steps for display.
func (p Path) String() string {
	return strings.Join(p.Steps(), StepSeparator)
}

// Reverse returns the same walk read from its end to its start.
func (p Path) Reverse() Path {
	out := Path{
		Movies: make([]MovieRef, len(p.Movies)),
		Actors: make([]ActorRef, len(p.Actors)),
	}
	for i, m := range p.Movies {
		out.Movies[len(p.Movies)-1-i] = m
	}
	for i, a := range p.Actors {
		out.Actors[len(p.Actors)-1-i] = a
	}
	return out
}
