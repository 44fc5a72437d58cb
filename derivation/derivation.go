/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package derivation provides lazily unfolded trees of rewriting
// steps and the linear traces ("derivations") they contain.
//
// A tree can be infinite when the strategy that produced it contains
// repetition.  Every operation here is lazy, but Derivations and
// Results do force whatever part of the tree they enumerate: always
// bound a possibly-infinite tree with RestrictHeight or
// RestrictWidth first.  That bounding is a resource-safety
// requirement, not an optimization.
package derivation

// Tree is a rooted tree of rewriting steps.
//
// Each node holds a value, an endpoint flag (true when stopping at
// this node is a valid completed run), and ordered branches.  The
// first branch is the preferred, leftmost alternative.  Trees are
// never modified in place; the operations below produce new trees.
type Tree[S, T any] struct {
	// Root is the node's value.
	Root T

	// End reports whether stopping here is a valid completed run.
	End bool

	expand   func() []Branch[S, T]
	branches []Branch[S, T]
	forced   bool
}

// Branch is one annotated edge to a subtree.
type Branch[S, T any] struct {
	Note S
	Tree *Tree[S, T]
}

// New makes a node whose branches are computed on demand.
func New[S, T any](root T, end bool, expand func() []Branch[S, T]) *Tree[S, T] {
	return &Tree[S, T]{
		Root:   root,
		End:    end,
		expand: expand,
	}
}

// Leaf makes a node with no branches.
func Leaf[S, T any](root T, end bool) *Tree[S, T] {
	return &Tree[S, T]{
		Root:   root,
		End:    end,
		forced: true,
	}
}

// Branches forces and returns this node's branches.  The result is
// memoized, so a shared subtree expands once.
func (t *Tree[S, T]) Branches() []Branch[S, T] {
	if !t.forced {
		if t.expand != nil {
			t.branches = t.expand()
		}
		t.forced = true
		t.expand = nil
	}
	return t.branches
}

// RestrictHeight truncates the tree at depth n.  Truncated nodes
// become endpoints, so at that depth "ran out of budget" cannot be
// told apart from "legitimately finished".
func RestrictHeight[S, T any](n int, t *Tree[S, T]) *Tree[S, T] {
	if n <= 0 {
		return Leaf[S, T](t.Root, true)
	}
	return New(t.Root, t.End, func() []Branch[S, T] {
		bs := t.Branches()
		acc := make([]Branch[S, T], len(bs))
		for i, b := range bs {
			acc[i] = Branch[S, T]{b.Note, RestrictHeight(n-1, b.Tree)}
		}
		return acc
	})
}

// RestrictWidth keeps only the first n branches at every node.
func RestrictWidth[S, T any](n int, t *Tree[S, T]) *Tree[S, T] {
	return New(t.Root, t.End, func() []Branch[S, T] {
		bs := t.Branches()
		if n < len(bs) {
			bs = bs[:n]
		}
		acc := make([]Branch[S, T], len(bs))
		for i, b := range bs {
			acc[i] = Branch[S, T]{b.Note, RestrictWidth(n, b.Tree)}
		}
		return acc
	})
}

// Commit collapses the tree to its single leftmost path, even if
// that path never reaches an endpoint.
func Commit[S, T any](t *Tree[S, T]) *Tree[S, T] {
	return RestrictWidth(1, t)
}

// MergeSteps removes the edges whose annotation satisfies the
// predicate, splicing each removed edge's subtree's branches
// directly into the parent.  A node becomes an endpoint if it
// already was one or if any spliced-in subtree's root was.
//
// This hides administrative steps from a displayed derivation while
// keeping the terms reachable through them.  Only the node's own
// branches and the chains of hidden edges below it are forced; the
// subtrees behind visible edges stay unexpanded until reached.
func MergeSteps[S, T any](pred func(S) bool, t *Tree[S, T]) *Tree[S, T] {
	return New(t.Root, hiddenEnd(pred, t), func() []Branch[S, T] {
		return splice(pred, t)
	})
}

// hiddenEnd reports whether an endpoint is reachable from t through
// hidden edges alone.
func hiddenEnd[S, T any](pred func(S) bool, t *Tree[S, T]) bool {
	if t.End {
		return true
	}
	for _, b := range t.Branches() {
		if pred(b.Note) && hiddenEnd(pred, b.Tree) {
			return true
		}
	}
	return false
}

// splice computes the merged branches of a node, recursing only
// through hidden edges.
func splice[S, T any](pred func(S) bool, t *Tree[S, T]) []Branch[S, T] {
	var acc []Branch[S, T]
	for _, b := range t.Branches() {
		if pred(b.Note) {
			acc = append(acc, splice(pred, b.Tree)...)
			continue
		}
		acc = append(acc, Branch[S, T]{b.Note, MergeSteps(pred, b.Tree)})
	}
	return acc
}

// CutOnStep discards everything beyond an edge whose annotation
// satisfies the predicate; that edge's target becomes a leaf
// endpoint.  Used to cap exploration past a known-terminal rule.
func CutOnStep[S, T any](pred func(S) bool, t *Tree[S, T]) *Tree[S, T] {
	return New(t.Root, t.End, func() []Branch[S, T] {
		bs := t.Branches()
		acc := make([]Branch[S, T], len(bs))
		for i, b := range bs {
			if pred(b.Note) {
				acc[i] = Branch[S, T]{b.Note, Leaf[S, T](b.Tree.Root, true)}
				continue
			}
			acc[i] = Branch[S, T]{b.Note, CutOnStep(pred, b.Tree)}
		}
		return acc
	})
}
