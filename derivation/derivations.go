package derivation

// Derivation is one flattened root-to-endpoint path: a start value
// plus the ordered steps taken.
type Derivation[S, T any] struct {
	Start T
	Steps []Step[S, T]
}

// Step is one annotated step of a Derivation.
type Step[S, T any] struct {
	Note  S
	Value T
}

// Result is the final value of the derivation.
func (d *Derivation[S, T]) Result() T {
	if len(d.Steps) == 0 {
		return d.Start
	}
	return d.Steps[len(d.Steps)-1].Value
}

// Length is the number of steps.
func (d *Derivation[S, T]) Length() int {
	return len(d.Steps)
}

// Derivations enumerates every root-to-endpoint path, leftmost
// first.  An endpoint at a node precedes the paths through its
// branches.
//
// This forces the whole tree: bound it first (§RestrictHeight,
// RestrictWidth) if it can be infinite.
func Derivations[S, T any](t *Tree[S, T]) []*Derivation[S, T] {
	var acc []*Derivation[S, T]
	walk(t, t.Root, nil, &acc)
	return acc
}

func walk[S, T any](t *Tree[S, T], start T, steps []Step[S, T], acc *[]*Derivation[S, T]) {
	if t.End {
		d := &Derivation[S, T]{Start: start, Steps: make([]Step[S, T], len(steps))}
		copy(d.Steps, steps)
		*acc = append(*acc, d)
	}
	for _, b := range t.Branches() {
		walk(b.Tree, start, append(steps, Step[S, T]{b.Note, b.Tree.Root}), acc)
	}
}

// FirstDerivation returns the leftmost derivation, if any, forcing
// only the part of the tree left of it.
func FirstDerivation[S, T any](t *Tree[S, T]) (*Derivation[S, T], bool) {
	steps, ok := firstPath[S, T](t, nil)
	if !ok {
		return nil, false
	}
	return &Derivation[S, T]{Start: t.Root, Steps: steps}, true
}

func firstPath[S, T any](t *Tree[S, T], steps []Step[S, T]) ([]Step[S, T], bool) {
	if t.End {
		return steps, true
	}
	for _, b := range t.Branches() {
		if found, ok := firstPath(b.Tree, append(steps, Step[S, T]{b.Note, b.Tree.Root})); ok {
			return found, true
		}
	}
	return nil, false
}

// Results gives the final value of every derivation.
func Results[S, T any](t *Tree[S, T]) []T {
	ds := Derivations(t)
	acc := make([]T, len(ds))
	for i, d := range ds {
		acc[i] = d.Result()
	}
	return acc
}

// LengthMax probes whether the first derivation is reachable within
// n steps by committing to the leftmost path after height-restricting
// to n+1.  Exceeding the budget and having no derivation on the
// committed path are deliberately not distinguished: either way the
// probe reports no bound.
func LengthMax[S, T any](n int, t *Tree[S, T]) (int, bool) {
	d, ok := FirstDerivation(Commit(RestrictHeight(n+1, t)))
	if !ok || n < d.Length() {
		return 0, false
	}
	return d.Length(), true
}
