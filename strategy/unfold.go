package strategy

import (
	"github.com/SakastLord/ideas/derivation"
	"github.com/SakastLord/ideas/rewrite"
)

// Unfold produces the derivation tree of the strategy's execution
// from the given term.
//
// The tree is expanded on demand and can be infinite when the
// strategy contains repetition: bound it with
// derivation.RestrictHeight or derivation.RestrictWidth before
// enumerating its derivations.
func Unfold[T any](s Strategy[T], x T) *derivation.Tree[*rewrite.Rule[T], T] {
	return unfold(NewPrefix(s, x))
}

func unfold[T any](p *Prefix[T]) *derivation.Tree[*rewrite.Rule[T], T] {
	return derivation.New(p.Term(), p.Done(), func() []derivation.Branch[*rewrite.Rule[T], T] {
		steps := p.Steps()
		acc := make([]derivation.Branch[*rewrite.Rule[T], T], len(steps))
		for i, st := range steps {
			acc[i] = derivation.Branch[*rewrite.Rule[T], T]{
				Note: st.Rule,
				Tree: unfold(st.Prefix),
			}
		}
		return acc
	})
}
