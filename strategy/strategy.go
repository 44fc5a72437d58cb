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

// Package strategy composes rewrite rules into strategies: control
// expressions describing the legal orders of rule application.
//
// A Strategy is pure data with no runtime state of its own.  All
// execution state lives in a Prefix, which identifies a position in
// the strategy's automaton and can be serialized (as a Path) so a
// stateless caller can resume exactly where it left off.
//
// When several rules are simultaneously eligible, the branch order
// follows the strategy's left-to-right combinator structure.  Given
// the same strategy and term, that order is reproducible across
// runs.
package strategy

import (
	"github.com/SakastLord/ideas/rewrite"
)

var (
	// NotLimit bounds the search that the Not combinator performs
	// to decide whether its body can succeed.
	NotLimit = 16

	// RemainingLimit bounds Prefix.Remaining's walk along the
	// committed path.
	RemainingLimit = 1000
)

// Strategy is a combinator expression over rules.
//
// Strategies are immutable and may be shared by any number of
// concurrent callers.
type Strategy[T any] interface {
	// steps enumerates the immediately eligible rule
	// applications, left to right, each with the strategy that
	// remains after it.
	steps(x T) []step[T]

	// accepts reports whether the strategy permits stopping at x
	// without taking a step.
	accepts(x T) bool
}

// step is one eligible transition of the automaton.
type step[T any] struct {
	rule *rewrite.Rule[T]
	to   T
	rest Strategy[T]
}

type ruleS[T any] struct {
	rule *rewrite.Rule[T]
}

type seqS[T any] struct {
	items []Strategy[T]
}

type choiceS[T any] struct {
	items []Strategy[T]
}

type manyS[T any] struct {
	body Strategy[T]
}

type notS[T any] struct {
	body Strategy[T]
}

type labelS[T any] struct {
	name string
	body Strategy[T]
}

type succeedS[T any] struct{}

type failS[T any] struct{}

// Use makes a strategy that applies the rule once.
func Use[T any](r *rewrite.Rule[T]) Strategy[T] {
	return &ruleS[T]{r}
}

// Seq runs the strategies in order.
func Seq[T any](ss ...Strategy[T]) Strategy[T] {
	switch len(ss) {
	case 0:
		return Succeed[T]()
	case 1:
		return ss[0]
	}
	return &seqS[T]{ss}
}

// Choice tries the strategies as ordered alternatives.  The first
// alternative is the preferred one.
func Choice[T any](ss ...Strategy[T]) Strategy[T] {
	switch len(ss) {
	case 0:
		return Fail[T]()
	case 1:
		return ss[0]
	}
	return &choiceS[T]{ss}
}

// Many repeats the strategy zero or more times.
func Many[T any](s Strategy[T]) Strategy[T] {
	return &manyS[T]{s}
}

// Repeat1 repeats the strategy one or more times.
func Repeat1[T any](s Strategy[T]) Strategy[T] {
	return Seq(s, Many(s))
}

// Option runs the strategy zero or one times.
func Option[T any](s Strategy[T]) Strategy[T] {
	return Choice(s, Succeed[T]())
}

// Not succeeds (without consuming a step) exactly when its body
// cannot succeed from the current term: negation as failure.
//
// Deciding that requires searching the body's derivations, which is
// bounded by NotLimit.
func Not[T any](s Strategy[T]) Strategy[T] {
	return &notS[T]{s}
}

// Label names a subtree for diagnostics and configuration.
func Label[T any](name string, s Strategy[T]) Strategy[T] {
	return &labelS[T]{name, s}
}

// Succeed is the strategy that does nothing, successfully.
func Succeed[T any]() Strategy[T] {
	return &succeedS[T]{}
}

// Fail is the strategy with no legal continuations.
func Fail[T any]() Strategy[T] {
	return &failS[T]{}
}

func (s *ruleS[T]) steps(x T) []step[T] {
	ys := s.rule.Apply(x)
	acc := make([]step[T], len(ys))
	for i, y := range ys {
		acc[i] = step[T]{rule: s.rule, to: y, rest: Succeed[T]()}
	}
	return acc
}

func (s *ruleS[T]) accepts(x T) bool {
	return false
}

func (s *seqS[T]) steps(x T) []step[T] {
	var acc []step[T]
	for i, item := range s.items {
		for _, st := range item.steps(x) {
			rest := append([]Strategy[T]{st.rest}, s.items[i+1:]...)
			acc = append(acc, step[T]{rule: st.rule, to: st.to, rest: Seq(rest...)})
		}
		// Later items are eligible only if this one can be
		// skipped (an empty run leaves the term unchanged).
		if !item.accepts(x) {
			break
		}
	}
	return acc
}

func (s *seqS[T]) accepts(x T) bool {
	for _, item := range s.items {
		if !item.accepts(x) {
			return false
		}
	}
	return true
}

func (s *choiceS[T]) steps(x T) []step[T] {
	var acc []step[T]
	for _, item := range s.items {
		acc = append(acc, item.steps(x)...)
	}
	return acc
}

func (s *choiceS[T]) accepts(x T) bool {
	for _, item := range s.items {
		if item.accepts(x) {
			return true
		}
	}
	return false
}

func (s *manyS[T]) steps(x T) []step[T] {
	inner := s.body.steps(x)
	acc := make([]step[T], len(inner))
	for i, st := range inner {
		acc[i] = step[T]{rule: st.rule, to: st.to, rest: Seq(st.rest, s)}
	}
	return acc
}

func (s *manyS[T]) accepts(x T) bool {
	return true
}

func (s *notS[T]) steps(x T) []step[T] {
	return nil
}

func (s *notS[T]) accepts(x T) bool {
	return !provable(s.body, x, NotLimit)
}

// provable reports whether the strategy has any complete run from x
// within the given step budget.
func provable[T any](s Strategy[T], x T, limit int) bool {
	if s.accepts(x) {
		return true
	}
	if limit <= 0 {
		return false
	}
	for _, st := range s.steps(x) {
		if provable(st.rest, st.to, limit-1) {
			return true
		}
	}
	return false
}

func (s *labelS[T]) steps(x T) []step[T] {
	return s.body.steps(x)
}

func (s *labelS[T]) accepts(x T) bool {
	return s.body.accepts(x)
}

func (s *succeedS[T]) steps(x T) []step[T] {
	return nil
}

func (s *succeedS[T]) accepts(x T) bool {
	return true
}

func (s *failS[T]) steps(x T) []step[T] {
	return nil
}

func (s *failS[T]) accepts(x T) bool {
	return false
}

// Inspect exposes a strategy's structure for rendering and analysis.
//
// op is one of "rule", "seq", "choice", "many", "not", "label",
// "succeed", or "fail".
func Inspect[T any](s Strategy[T]) (op string, label string, rule *rewrite.Rule[T], children []Strategy[T]) {
	switch v := s.(type) {
	case *ruleS[T]:
		return "rule", "", v.rule, nil
	case *seqS[T]:
		return "seq", "", nil, v.items
	case *choiceS[T]:
		return "choice", "", nil, v.items
	case *manyS[T]:
		return "many", "", nil, []Strategy[T]{v.body}
	case *notS[T]:
		return "not", "", nil, []Strategy[T]{v.body}
	case *labelS[T]:
		return "label", v.name, nil, []Strategy[T]{v.body}
	case *succeedS[T]:
		return "succeed", "", nil, nil
	}
	return "fail", "", nil, nil
}

// Rules collects every distinct rule mentioned in the strategy, in
// left-to-right order.
func Rules[T any](s Strategy[T]) []*rewrite.Rule[T] {
	var (
		acc  []*rewrite.Rule[T]
		seen = make(map[string]bool)
	)
	var walk func(Strategy[T])
	walk = func(s Strategy[T]) {
		_, _, rule, children := Inspect(s)
		if rule != nil && !seen[rule.Name] {
			seen[rule.Name] = true
			acc = append(acc, rule)
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(s)
	return acc
}
