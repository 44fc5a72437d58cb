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

// Package jterm makes JSON-shaped values usable as a term domain:
// pattern matching via the match package, a JSON parser and printer,
// structural equality, and a child navigator for Context cursors.
//
// A term like ["plus", 1, ["times", 2, 3]] is an operator applied to
// arguments.
package jterm

import (
	"encoding/json"

	"github.com/SakastLord/ideas/env"
	"github.com/SakastLord/ideas/match"
	"github.com/SakastLord/ideas/rewrite"
)

// Term is a JSON-shaped value.
type Term = interface{}

// Engine implements rewrite.PatternEngine for JSON-shaped terms.
type Engine struct {
	Matcher *match.Matcher
}

// Std is the engine used by the helpers in this package.
var Std = &Engine{Matcher: match.DefaultMatcher}

func (e *Engine) Match(pattern, term Term) ([]match.Bindings, error) {
	return e.Matcher.Match(pattern, term, nil)
}

func (e *Engine) Substitute(bs match.Bindings, pattern Term) Term {
	return match.Substitute(bs, pattern)
}

func (e *Engine) Vars(pattern Term) []string {
	return match.Vars(pattern)
}

// Parse reads a term from its JSON text.
func Parse(s string) (Term, error) {
	var x Term
	if err := json.Unmarshal([]byte(s), &x); err != nil {
		return nil, err
	}
	return x, nil
}

// MustParse is Parse for literals in tests and examples.
func MustParse(s string) Term {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

// Print renders a term as JSON text.
func Print(x Term) string {
	js, err := json.Marshal(&x)
	if err != nil {
		return ""
	}
	return string(js)
}

// Equal is structural equality of terms.
func Equal(a, b Term) bool {
	return match.Equal(a, b)
}

// PatternRule makes a Rule from one (lhs, rhs) pattern pair given as
// JSON text.
func PatternRule(name, lhs, rhs string) (*rewrite.Rule[Term], error) {
	l, err := Parse(lhs)
	if err != nil {
		return nil, err
	}
	r, err := Parse(rhs)
	if err != nil {
		return nil, err
	}
	t, err := rewrite.NewPattern[Term](Std, l, r)
	if err != nil {
		return nil, err
	}
	return rewrite.New(name, t), nil
}

// MustPatternRule is PatternRule for literals in tests and examples.
func MustPatternRule(name, lhs, rhs string) *rewrite.Rule[Term] {
	r, err := PatternRule(name, lhs, rhs)
	if err != nil {
		panic(err)
	}
	return r
}

// navigator exposes the arguments of an operator term as children.
// For ["plus", 1, 2], child 0 is 1 and child 1 is 2.
type navigator struct{}

// Nav is the Navigator for JSON-shaped terms.
var Nav env.Navigator[Term] = navigator{}

func (navigator) Down(x Term, i int) (Term, bool) {
	xs, is := x.([]interface{})
	if !is || i < 0 || len(xs)-1 <= i {
		return nil, false
	}
	return xs[i+1], true
}

func (navigator) Replace(x Term, i int, child Term) Term {
	xs, is := x.([]interface{})
	if !is || i < 0 || len(xs)-1 <= i {
		return x
	}
	acc := make([]interface{}, len(xs))
	copy(acc, xs)
	acc[i+1] = child
	return acc
}
