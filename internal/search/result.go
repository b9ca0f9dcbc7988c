package search

import (
	"fmt"

	"github.com/vanshika/reelpath/internal/domain"
)

// Outcome classifies how a search ended.
type Outcome string

const (
	OutcomeFound      Outcome = "found"
	OutcomeSameMovie  Outcome = "same_movie"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeExhausted  Outcome = "exhausted"
)

// Result is the terminal answer of a search.
type Result struct {
	Outcome Outcome
	// Start and Target are the titles as the caller supplied them.
	Start  string
	Target string
	// StartMovie and TargetMovie are the resolved movies.
	StartMovie  domain.MovieRef
	TargetMovie domain.MovieRef
	// Path reads from StartMovie to TargetMovie. It is set for OutcomeFound
	// and OutcomeSameMovie.
	Path domain.Path
	// Steps counts frontier expansions.
	Steps int
	// Truncated is set when the search stopped on its step budget rather than
	// on an empty frontier.
	Truncated bool
}

// Message renders the result for display.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeFound:
		return r.Path.String()
	case OutcomeSameMovie:
		return fmt.Sprintf("Start and target movie are the same: '%s'", r.StartMovie.Title)
	case OutcomeExhausted:
		return fmt.Sprintf("No connection found between '%s' and '%s' via actors.", r.Start, r.Target)
	default:
		return ""
	}
}

// ResolutionError reports a title the catalog could not match.
type ResolutionError struct {
	Title string
	Side  Side
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Could not find movie '%s'", e.Title)
}

// StepKind classifies the outcome of one expansion step.
type StepKind int

const (
	// StepContinue means the step found no meeting point.
	StepContinue StepKind = iota
	// StepFound means the step reached a movie visited by the other side.
	StepFound
	// StepExhausted means the side had nothing left to expand.
	StepExhausted
)

func (k StepKind) String() string {
	switch k {
	case StepFound:
		return "found"
	case StepExhausted:
		return "exhausted"
	default:
		return "continue"
	}
}

// StepResult is what one expansion step produced.
type StepResult struct {
	Kind StepKind
	// Expanded is the movie taken off the frontier.
	Expanded domain.MovieRef
	// Path is the connecting walk, oriented from the expanding side's root,
	// when Kind is StepFound.
	Path domain.Path
}
