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

package rewrite

import (
	"strings"
)

// Rule is a named bundle of Transformations.
//
// Rule values are constructed once, when a domain is defined, and
// are then shared read-only by any number of concurrent callers.
type Rule[T any] struct {
	// Name should be unique within a ruleset.
	Name string `json:"name"`

	// Doc is Markdown documentation for the rule.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Buggy marks an intentionally unsound rule kept around for
	// misconception detection.  Buggy rules are excluded from
	// soundness checks.
	Buggy bool `json:"buggy,omitempty" yaml:",omitempty"`

	// Minor marks an administrative rule (identity, cleanup)
	// excluded from user-visible step counts.
	Minor bool `json:"minor,omitempty" yaml:",omitempty"`

	// Transformations are tried in order; their results are
	// concatenated.
	Transformations []*Transformation[T] `json:"-" yaml:"-"`
}

// New makes a Rule from the given transformations.
func New[T any](name string, ts ...*Transformation[T]) *Rule[T] {
	return &Rule[T]{
		Name:            name,
		Transformations: ts,
	}
}

// Apply tries each transformation in order and concatenates the
// results.  An empty result means the rule does not apply; that is
// the dominant, expected outcome, and it is not an error.
func (r *Rule[T]) Apply(x T) []T {
	var acc []T
	for _, t := range r.Transformations {
		acc = append(acc, t.Apply(x)...)
	}
	return acc
}

// ApplyFirst returns the first result, if any.
func (r *Rule[T]) ApplyFirst(x T) (T, bool) {
	for _, t := range r.Transformations {
		if ys := t.Apply(x); 0 < len(ys) {
			return ys[0], true
		}
	}
	var zero T
	return zero, false
}

// ApplyDefault returns the first result or the input unchanged.
//
// Administrative cleanup steps use this so that a pipeline never
// fails on them.
func (r *Rule[T]) ApplyDefault(x T) T {
	if y, ok := r.ApplyFirst(x); ok {
		return y
	}
	return x
}

// Combine unions the given rules into one.
//
// Applying the combination yields exactly the concatenation of each
// rule's results, in order.  If name is empty, the names are joined
// with "+".  The combination is buggy if any part is, and minor only
// if all parts are.
func Combine[T any](name string, rules ...*Rule[T]) *Rule[T] {
	var (
		names = make([]string, len(rules))
		ts    []*Transformation[T]
		buggy bool
		minor = 0 < len(rules)
	)
	for i, r := range rules {
		names[i] = r.Name
		ts = append(ts, r.Transformations...)
		buggy = buggy || r.Buggy
		minor = minor && r.Minor
	}
	if name == "" {
		name = strings.Join(names, "+")
	}
	return &Rule[T]{
		Name:            name,
		Buggy:           buggy,
		Minor:           minor,
		Transformations: ts,
	}
}

// Invert inverts the rule.
//
// A rule inverts only if all of its transformations invert.  Partial
// inversion is disallowed: a rule that silently dropped some of its
// transformations on inversion would be unsound.
func (r *Rule[T]) Invert() (*Rule[T], error) {
	ts := make([]*Transformation[T], len(r.Transformations))
	for i, t := range r.Transformations {
		back, err := t.Invert()
		if err != nil {
			return nil, err
		}
		ts[i] = back
	}
	return &Rule[T]{
		Name:            "~" + r.Name,
		Buggy:           r.Buggy,
		Minor:           r.Minor,
		Transformations: ts,
	}, nil
}

// Lift makes the rule operate on an outer structure through the
// given view.
func Lift[U, T any](v View[U, T], r *Rule[T]) *Rule[U] {
	ts := make([]*Transformation[U], len(r.Transformations))
	for i, t := range r.Transformations {
		ts[i] = LiftTransformation(v, t)
	}
	return &Rule[U]{
		Name:            r.Name,
		Doc:             r.Doc,
		Buggy:           r.Buggy,
		Minor:           r.Minor,
		Transformations: ts,
	}
}

// NeedsArgs reports whether the rule applies to the term and, if so,
// what arguments (if any) it expects, pretty-printed.
//
// A nil list with ok true means the rule applies without arguments.
func (r *Rule[T]) NeedsArgs(x T) ([]ArgValue, bool) {
	for _, t := range r.Transformations {
		if t.Kind() == Parameterized {
			if vals, ok := t.Expected(x); ok {
				return vals, true
			}
			continue
		}
		if 0 < len(t.Apply(x)) {
			return nil, true
		}
	}
	return nil, false
}

// BindArgs supplies string arguments to the rule's parameterized
// transformations, returning a fully-specified Rule.
//
// Rules without parameterized transformations reject arguments.
func (r *Rule[T]) BindArgs(args ...string) (*Rule[T], error) {
	bound := false
	ts := make([]*Transformation[T], len(r.Transformations))
	for i, t := range r.Transformations {
		if t.Kind() != Parameterized {
			ts[i] = t
			continue
		}
		b, err := t.BindArgs(args...)
		if err != nil {
			return nil, err
		}
		ts[i] = b
		bound = true
	}
	if !bound {
		return nil, ErrNotParameterized
	}
	return &Rule[T]{
		Name:            r.Name,
		Doc:             r.Doc,
		Buggy:           r.Buggy,
		Minor:           r.Minor,
		Transformations: ts,
	}, nil
}
