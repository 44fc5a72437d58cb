/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

package strategy

import (
	"reflect"

	"github.com/SakastLord/ideas/match"
	"github.com/SakastLord/ideas/rewrite"
)

// Prefix is a position inside a strategy's automaton: the strategy
// it came from, what remains of it, the term reached so far, and the
// path of choices that got here.
//
// Two Prefixes are comparable only if they were derived from the
// same Strategy.  A Prefix is immutable; stepping returns new ones.
type Prefix[T any] struct {
	strategy  Strategy[T]
	rest      Strategy[T]
	term      T
	path      Path
	exhausted bool
}

// NewPrefix makes the empty prefix: the initial automaton state with
// nothing chosen yet.
func NewPrefix[T any](s Strategy[T], x T) *Prefix[T] {
	return &Prefix[T]{
		strategy: s,
		rest:     s,
		term:     x,
		path:     Path{},
	}
}

// Exhausted makes a prefix with no legal continuation.  It
// represents a term outside the strategy, such as free-form input
// that is not being graded.
func Exhausted[T any](x T) *Prefix[T] {
	return &Prefix[T]{
		term:      x,
		path:      Path{},
		exhausted: true,
	}
}

// Term is the term or context this prefix points at.
func (p *Prefix[T]) Term() T {
	return p.term
}

// Path is the sequence of choices committed so far.
func (p *Prefix[T]) Path() Path {
	return p.path
}

// Strategy is the strategy this prefix was derived from.
func (p *Prefix[T]) Strategy() Strategy[T] {
	return p.strategy
}

// IsEmpty reports whether this is the initial state with nothing
// chosen yet.
func (p *Prefix[T]) IsEmpty() bool {
	return !p.exhausted && len(p.path) == 0
}

// IsExhausted reports whether this prefix has no legal continuation.
func (p *Prefix[T]) IsExhausted() bool {
	return p.exhausted
}

// Done reports whether stopping at the current term is a valid
// completed run.
func (p *Prefix[T]) Done() bool {
	if p.exhausted {
		return false
	}
	return p.rest.accepts(p.term)
}

// Next is one continuation from a Prefix.
type Next[T any] struct {
	// Rule is the rule the continuation applies.
	Rule *rewrite.Rule[T]

	// To is the resulting term.
	To T

	// Choice is the index of this continuation among its
	// siblings, as recorded in a Path.
	Choice int

	// Prefix is the position after taking this continuation.
	Prefix *Prefix[T]
}

// Steps enumerates the continuations from this position, in the
// strategy's left-to-right order.
func (p *Prefix[T]) Steps() []Next[T] {
	if p.exhausted {
		return nil
	}
	steps := p.rest.steps(p.term)
	acc := make([]Next[T], len(steps))
	for i, st := range steps {
		path := make(Path, len(p.path)+1)
		copy(path, p.path)
		path[len(p.path)] = Move{Choice: i, Rule: st.rule.Name}
		acc[i] = Next[T]{
			Rule:   st.rule,
			To:     st.to,
			Choice: i,
			Prefix: &Prefix[T]{
				strategy: p.strategy,
				rest:     st.rest,
				term:     st.to,
				path:     path,
			},
		}
	}
	return acc
}

// FirstSteps enumerates the single-step continuations from a fresh
// start.
func FirstSteps[T any](s Strategy[T], x T) []Next[T] {
	return NewPrefix(s, x).Steps()
}

// Eq decides whether a submitted term matches an expected one.
type Eq[T any] func(a, b T) bool

// Structural is the default equality: structural comparison after
// canonicalization.
func Structural[T any](a, b T) bool {
	return reflect.DeepEqual(match.Canon(a), match.Canon(b))
}

// StepTo finds the first continuation whose result matches the
// submitted term under the given equality (Structural if nil).
//
// Which equality to use is the caller's decision: structural
// equality for exact step checking, or a domain equivalence for more
// lenient grading.
func (p *Prefix[T]) StepTo(submitted T, eq Eq[T]) (*Next[T], bool) {
	if eq == nil {
		eq = Structural[T]
	}
	for _, n := range p.Steps() {
		n := n
		if eq(n.To, submitted) {
			return &n, true
		}
	}
	return nil, false
}

// Remaining counts the non-minor steps on the leftmost route from
// here.  The walk is greedy: it keeps stepping while any continuation
// exists, even through positions the strategy would already accept,
// since a repetition accepts everywhere and stopping there would
// report zero for every unfinished problem.  Minor steps are taken
// but not counted.
//
// The walk is bounded by RemainingLimit; ok is false if the route's
// end is not a valid endpoint or was not reached within that bound.
func (p *Prefix[T]) Remaining() (n int, ok bool) {
	if p.exhausted {
		return 0, false
	}
	cur := p
	for i := 0; i < RemainingLimit; i++ {
		steps := cur.Steps()
		if len(steps) == 0 {
			if cur.Done() {
				return n, true
			}
			return 0, false
		}
		first := steps[0]
		if !first.Rule.Minor {
			n++
		}
		cur = first.Prefix
	}
	return 0, false
}
