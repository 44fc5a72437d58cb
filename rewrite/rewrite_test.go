/* Copyright 2018 Comcast Cable Communications Management, LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rewrite

import (
	"strconv"
	"testing"

	"github.com/SakastLord/ideas/match"
	. "github.com/SakastLord/ideas/util/testutil"
)

// jsEngine is a PatternEngine over JSON-shaped terms, for testing.
type jsEngine struct{}

func (jsEngine) Match(pattern, term interface{}) ([]match.Bindings, error) {
	return match.Match(pattern, term, match.NewBindings())
}

func (jsEngine) Substitute(bs match.Bindings, pattern interface{}) interface{} {
	return match.Substitute(bs, pattern)
}

func (jsEngine) Vars(pattern interface{}) []string {
	return match.Vars(pattern)
}

func plusZero(t *testing.T) *Transformation[interface{}] {
	tr, err := NewPattern[interface{}](jsEngine{},
		Dwimjs(`["plus", "?x", 0]`),
		Dwimjs(`"?x"`))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestPatternApply(t *testing.T) {
	tr := plusZero(t)

	x := Dwimjs(`["plus", ["var", "a"], 0]`)
	ys := tr.Apply(x)
	if 1 != len(ys) {
		t.Fatalf("got %s", JS(ys))
	}
	if JS(ys[0]) != JS(Dwimjs(`["var", "a"]`)) {
		t.Fatalf("got %s", JS(ys[0]))
	}

	// Non-matching input is silence, not an error.
	if ys = tr.Apply(Dwimjs(`["times", 1, 2]`)); 0 != len(ys) {
		t.Fatalf("got %s", JS(ys))
	}
}

func TestPatternNoMutation(t *testing.T) {
	tr := plusZero(t)

	x := Dwimjs(`["plus", ["var", "a"], 0]`)
	before := JS(x)
	ys := tr.Apply(x)
	if JS(x) != before {
		t.Fatal("input was modified")
	}

	// Results must not alias the input.
	inner := x.([]interface{})[1].([]interface{})
	inner[1] = "changed"
	if JS(ys[0]) != JS(Dwimjs(`["var", "a"]`)) {
		t.Fatal("result aliases input")
	}
}

func TestPatternInvert(t *testing.T) {
	tr := plusZero(t)

	inv, err := tr.Invert()
	if err != nil {
		t.Fatal(err)
	}

	ys := inv.Apply(Dwimjs(`["var", "a"]`))
	if 1 != len(ys) || JS(ys[0]) != JS(Dwimjs(`["plus", ["var", "a"], 0]`)) {
		t.Fatalf("got %s", JS(ys))
	}
}

func TestPatternUnbound(t *testing.T) {
	_, err := NewPattern[interface{}](jsEngine{},
		Dwimjs(`["plus", "?x", 0]`),
		Dwimjs(`["plus", "?x", "?y"]`))
	if err == nil {
		t.Fatal("expected an UnboundVariables error")
	}
	ub, is := err.(*UnboundVariables)
	if !is {
		t.Fatalf("got %T", err)
	}
	if 1 != len(ub.Vars) || ub.Vars[0] != "?y" {
		t.Fatalf("got %v", ub.Vars)
	}
}

func TestDirectNotInvertible(t *testing.T) {
	tr := NewDirect(func(x interface{}) []interface{} {
		return []interface{}{x}
	})
	if _, err := tr.Invert(); err == nil {
		t.Fatal("expected NotInvertible")
	}
}

func splitNumber(t *testing.T) *Transformation[interface{}] {
	// Splits a number n into ["plus", c, n-c].
	tr, err := NewParameterized(
		[]ArgSpec{NumberArg("c", 1)},
		func(x interface{}) ([]ArgValue, bool) {
			f, is := x.(float64)
			if !is {
				return nil, false
			}
			half := float64(int(f) / 2)
			return []ArgValue{{Label: "c", Value: strconv.FormatFloat(half, 'g', -1, 64)}}, true
		},
		func(vals []interface{}) (*Transformation[interface{}], error) {
			c := vals[0].(float64)
			return NewDirect(func(x interface{}) []interface{} {
				f, is := x.(float64)
				if !is {
					return nil
				}
				return []interface{}{[]interface{}{"plus", c, f - c}}
			}), nil
		})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestParameterized(t *testing.T) {
	tr := splitNumber(t)

	// Applying without binding uses the defaults.
	ys := tr.Apply(float64(10))
	if 1 != len(ys) || JS(ys[0]) != JS(Dwimjs(`["plus", 1, 9]`)) {
		t.Fatalf("got %s", JS(ys))
	}

	// The schema suggests values for a term.
	vals, ok := tr.Expected(float64(10))
	if !ok || 1 != len(vals) || vals[0].Value != "5" {
		t.Fatalf("got %#v %v", vals, ok)
	}
	if _, ok = tr.Expected("not a number"); ok {
		t.Fatal("expected not-applicable")
	}

	bound, err := tr.BindArgs("4")
	if err != nil {
		t.Fatal(err)
	}
	ys = bound.Apply(float64(10))
	if 1 != len(ys) || JS(ys[0]) != JS(Dwimjs(`["plus", 4, 6]`)) {
		t.Fatalf("got %s", JS(ys))
	}
}

func TestParameterizedBadArgs(t *testing.T) {
	tr := splitNumber(t)

	if _, err := tr.BindArgs(); err == nil {
		t.Fatal("expected an ArityError")
	} else if _, is := err.(*ArityError); !is {
		t.Fatalf("got %T", err)
	}

	_, err := tr.BindArgs("queso")
	if err == nil {
		t.Fatal("expected ArgErrors")
	}
	bad, is := err.(ArgErrors)
	if !is {
		t.Fatalf("got %T", err)
	}
	if 1 != len(bad) || bad[0].Label != "c" {
		t.Fatalf("got %v", bad)
	}
}

func TestDuplicateLabel(t *testing.T) {
	_, err := NewParameterized[interface{}](
		[]ArgSpec{NumberArg("c", 1), NumberArg("c", 2)},
		nil,
		func(vals []interface{}) (*Transformation[interface{}], error) {
			return nil, nil
		})
	if err == nil {
		t.Fatal("expected a DuplicateLabel error")
	}
}

func TestRuleApplyOrder(t *testing.T) {
	a := NewDirect(func(x interface{}) []interface{} {
		return []interface{}{"a"}
	})
	b := NewDirect(func(x interface{}) []interface{} {
		return []interface{}{"b1", "b2"}
	})
	r := New("ab", a, b)

	ys := r.Apply("in")
	if JS(ys) != `["a","b1","b2"]` {
		t.Fatalf("got %s", JS(ys))
	}

	y, ok := r.ApplyFirst("in")
	if !ok || y != "a" {
		t.Fatalf("got %v %v", y, ok)
	}
}

func TestApplyDefault(t *testing.T) {
	r := New("silent", NewDirect(func(x interface{}) []interface{} {
		return nil
	}))
	if y := r.ApplyDefault("in"); y != "in" {
		t.Fatalf("got %v", y)
	}
}

func TestCombine(t *testing.T) {
	mk := func(name string, buggy, minor bool) *Rule[interface{}] {
		r := New(name, NewDirect(func(x interface{}) []interface{} {
			return []interface{}{name}
		}))
		r.Buggy = buggy
		r.Minor = minor
		return r
	}

	c := Combine("", mk("a", false, true), mk("b", true, true))
	if c.Name != "a+b" {
		t.Fatalf("got name %s", c.Name)
	}
	if !c.Buggy {
		t.Fatal("combined rule should be buggy if any part is")
	}
	if !c.Minor {
		t.Fatal("combined rule should be minor when all parts are")
	}

	ys := c.Apply("in")
	if JS(ys) != `["a","b"]` {
		t.Fatalf("got %s", JS(ys))
	}

	c = Combine("", mk("a", false, false), mk("b", false, true))
	if c.Minor {
		t.Fatal("combined rule should not be minor unless all parts are")
	}
}

func TestRuleInvert(t *testing.T) {
	tr := plusZero(t)
	r := New("plusZero", tr)
	r.Buggy = true

	inv, err := r.Invert()
	if err != nil {
		t.Fatal(err)
	}
	if inv.Name != "~plusZero" {
		t.Fatalf("got name %s", inv.Name)
	}
	if !inv.Buggy {
		t.Fatal("flags should survive inversion")
	}

	// A rule with any non-invertible transformation cannot be
	// inverted at all.
	r = New("mixed", tr, NewDirect(func(x interface{}) []interface{} {
		return nil
	}))
	if _, err = r.Invert(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLift(t *testing.T) {
	// View into the second element of a pair.
	v := View[interface{}, interface{}]{
		Get: func(u interface{}) (interface{}, bool) {
			xs, is := u.([]interface{})
			if !is || len(xs) != 2 {
				return nil, false
			}
			return xs[1], true
		},
		Set: func(x interface{}, u interface{}) interface{} {
			xs := u.([]interface{})
			return []interface{}{xs[0], x}
		},
	}

	r := Lift(v, New("plusZero", plusZero(t)))
	if r.Name != "plusZero" {
		t.Fatalf("got name %s", r.Name)
	}

	ys := r.Apply(Dwimjs(`["ctx", ["plus", 3, 0]]`))
	if 1 != len(ys) || JS(ys[0]) != `["ctx",3]` {
		t.Fatalf("got %s", JS(ys))
	}

	// Lifted rules invert through the inner transformation.
	inv, err := r.Invert()
	if err != nil {
		t.Fatal(err)
	}
	ys = inv.Apply(Dwimjs(`["ctx", 3]`))
	if 1 != len(ys) || JS(ys[0]) != `["ctx",["plus",3,0]]` {
		t.Fatalf("got %s", JS(ys))
	}
}
