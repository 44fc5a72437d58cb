package strategy

import (
	"fmt"
)

// ReplayError occurs when a recorded Path no longer matches the
// given strategy and term.  It indicates stale or corrupted
// client-held state, so it is surfaced distinctly from ordinary
// non-applicability.
type ReplayError struct {
	// Step is the zero-based index of the move that failed.
	Step int

	// Move is the recorded move that could not be taken.
	Move Move

	// Reason says what went wrong.
	Reason string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf(`replay failed at step %d (%d.%s): %s`, e.Step, e.Move.Choice, e.Move.Rule, e.Reason)
}

// Replay reconstructs the automaton position reached by following a
// previously recorded path, re-applying each step to the term.
//
// If any recorded move is no longer legal (the strategy definition
// changed, or the term diverged from the recorded trace), Replay
// fails with a ReplayError naming the step.  It never falls back to
// a different continuation.
//
// Replaying the same path against the same strategy and term is
// deterministic: it yields the same prefix every time.
func Replay[T any](path Path, s Strategy[T], x T) (*Prefix[T], error) {
	p := NewPrefix(s, x)
	for k, mv := range path {
		steps := p.Steps()
		if mv.Choice < 0 || len(steps) <= mv.Choice {
			return nil, &ReplayError{
				Step:   k,
				Move:   mv,
				Reason: fmt.Sprintf("only %d continuations here", len(steps)),
			}
		}
		next := steps[mv.Choice]
		if next.Rule.Name != mv.Rule {
			return nil, &ReplayError{
				Step:   k,
				Move:   mv,
				Reason: `continuation is now rule "` + next.Rule.Name + `"`,
			}
		}
		p = next.Prefix
	}
	return p, nil
}
