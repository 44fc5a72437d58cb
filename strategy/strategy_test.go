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

package strategy

import (
	"strings"
	"testing"

	"github.com/SakastLord/ideas/rewrite"
)

// The test domain is numbers (as interface{} holding float64).

func direct(name string, f func(float64) []float64) *rewrite.Rule[interface{}] {
	return rewrite.New(name, rewrite.NewDirect(func(x interface{}) []interface{} {
		n, is := x.(float64)
		if !is {
			return nil
		}
		ys := f(n)
		acc := make([]interface{}, len(ys))
		for i, y := range ys {
			acc[i] = y
		}
		return acc
	}))
}

func incBelow(limit float64) *rewrite.Rule[interface{}] {
	return direct("inc", func(n float64) []float64 {
		if limit <= n {
			return nil
		}
		return []float64{n + 1}
	})
}

func ruleNames(steps []Next[interface{}]) string {
	acc := make([]string, len(steps))
	for i, st := range steps {
		acc[i] = st.Rule.Name
	}
	return strings.Join(acc, ",")
}

func TestChoiceOrder(t *testing.T) {
	double := direct("double", func(n float64) []float64 {
		return []float64{2 * n}
	})
	// One rule, two results: both become continuations, in order.
	split := direct("split", func(n float64) []float64 {
		return []float64{n - 1, n + 1}
	})

	s := Choice(Use(double), Use(split))
	steps := FirstSteps(s, interface{}(float64(3)))

	if got := ruleNames(steps); got != "double,split,split" {
		t.Fatalf("got %s", got)
	}
	if steps[0].To != interface{}(float64(6)) ||
		steps[1].To != interface{}(float64(2)) ||
		steps[2].To != interface{}(float64(4)) {
		t.Fatalf("got %#v", steps)
	}
	for i, st := range steps {
		if st.Choice != i {
			t.Fatalf("choice %d reported as %d", i, st.Choice)
		}
	}
}

func TestSeqGating(t *testing.T) {
	a := direct("a", func(n float64) []float64 {
		return []float64{n + 10}
	})
	b := direct("b", func(n float64) []float64 {
		return []float64{n + 100}
	})

	// A rule strategy can't be skipped, so b isn't eligible yet.
	steps := FirstSteps(Seq(Use(a), Use(b)), interface{}(float64(0)))
	if got := ruleNames(steps); got != "a" {
		t.Fatalf("got %s", got)
	}

	// Many can be skipped (zero iterations), so b is eligible
	// alongside a.
	steps = FirstSteps(Seq(Many(Use(a)), Use(b)), interface{}(float64(0)))
	if got := ruleNames(steps); got != "a,b" {
		t.Fatalf("got %s", got)
	}
}

func TestManyRun(t *testing.T) {
	s := Many(Use(incBelow(3)))
	p := NewPrefix(s, interface{}(float64(0)))

	for i := 0; i < 3; i++ {
		if !p.Done() {
			// Many accepts anywhere; just checking it.
			t.Fatal("Many should accept at every point")
		}
		steps := p.Steps()
		if 1 != len(steps) {
			t.Fatalf("got %d steps at %v", len(steps), p.Term())
		}
		p = steps[0].Prefix
	}

	if p.Term() != interface{}(float64(3)) {
		t.Fatalf("got %v", p.Term())
	}
	if 0 != len(p.Steps()) {
		t.Fatal("expected no more steps")
	}
	if !p.Done() {
		t.Fatal("expected a valid endpoint")
	}
	if p.Path().Encode() != "0.inc;0.inc;0.inc" {
		t.Fatalf("got path %s", p.Path())
	}
}

func TestRepeat1(t *testing.T) {
	s := Repeat1(Use(incBelow(3)))
	p := NewPrefix(s, interface{}(float64(0)))

	// Zero iterations is not a valid run.
	if p.Done() {
		t.Fatal("Repeat1 should not accept without a step")
	}
	p = p.Steps()[0].Prefix
	if !p.Done() {
		t.Fatal("one iteration should be enough")
	}
}

func TestNot(t *testing.T) {
	inc := Use(incBelow(3))

	// Not(inc) accepts exactly when inc can't run.
	if NewPrefix(Not[interface{}](inc), interface{}(float64(0))).Done() {
		t.Fatal("inc is provable from 0")
	}
	if !NewPrefix(Not[interface{}](inc), interface{}(float64(5))).Done() {
		t.Fatal("inc is not provable from 5")
	}

	// Not contributes no steps of its own.
	if steps := FirstSteps(Not[interface{}](inc), interface{}(float64(0))); 0 != len(steps) {
		t.Fatalf("got %d steps", len(steps))
	}
}

func TestOption(t *testing.T) {
	s := Option(Use(incBelow(3)))
	p := NewPrefix(s, interface{}(float64(0)))
	if !p.Done() {
		t.Fatal("Option should accept with zero steps")
	}
	if 1 != len(p.Steps()) {
		t.Fatal("Option should also offer the step")
	}
}

func TestPathRoundTrip(t *testing.T) {
	path := Path{{Choice: 0, Rule: "plusZero"}, {Choice: 2, Rule: "evalPlus"}}
	enc := path.Encode()
	if enc != "0.plusZero;2.evalPlus" {
		t.Fatalf("got %s", enc)
	}
	back, err := DecodePath(enc)
	if err != nil {
		t.Fatal(err)
	}
	if back.Encode() != enc {
		t.Fatalf("got %s", back.Encode())
	}

	if _, err = DecodePath("nodot"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err = DecodePath("x.rule"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestReplay(t *testing.T) {
	s := Many(Use(incBelow(3)))
	x := interface{}(float64(0))

	p := NewPrefix(s, x)
	p = p.Steps()[0].Prefix
	p = p.Steps()[0].Prefix

	again, err := Replay(p.Path(), s, x)
	if err != nil {
		t.Fatal(err)
	}
	if again.Term() != p.Term() || again.Path().Encode() != p.Path().Encode() {
		t.Fatal("replay should reproduce the position exactly")
	}
}

func TestReplayStale(t *testing.T) {
	s := Many(Use(incBelow(3)))
	x := interface{}(float64(0))

	// The rule was renamed since the path was recorded.
	path, err := DecodePath("0.increment")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Replay(path, s, x)
	re, is := err.(*ReplayError)
	if !is {
		t.Fatalf("got %T %v", err, err)
	}
	if re.Step != 0 {
		t.Fatalf("got step %d", re.Step)
	}

	// The recorded choice is out of range.
	path, _ = DecodePath("0.inc;5.inc")
	_, err = Replay(path, s, x)
	if re, is = err.(*ReplayError); !is || re.Step != 1 {
		t.Fatalf("got %T %v", err, err)
	}
}

func TestStepTo(t *testing.T) {
	s := Many(Use(incBelow(3)))
	p := NewPrefix(s, interface{}(float64(0)))

	next, ok := p.StepTo(interface{}(float64(1)), nil)
	if !ok {
		t.Fatal("expected a matching continuation")
	}
	if next.Rule.Name != "inc" {
		t.Fatalf("got %s", next.Rule.Name)
	}

	if _, ok = p.StepTo(interface{}(float64(7)), nil); ok {
		t.Fatal("no continuation gives 7")
	}
}

func TestRemaining(t *testing.T) {
	tidy := direct("tidy", func(n float64) []float64 {
		if n != 0 {
			return nil
		}
		return []float64{0.5}
	})
	tidy.Minor = true
	inc := direct("inc", func(n float64) []float64 {
		if 3 <= n {
			return nil
		}
		return []float64{float64(int(n)) + 1}
	})

	s := Many(Choice(Use(tidy), Use(inc)))
	p := NewPrefix(s, interface{}(float64(0)))

	// The leftmost route is tidy, inc, inc, inc; tidy is minor
	// and doesn't count.  Many accepts the starting term already,
	// but the walk is greedy and runs the route to its end.
	n, ok := p.Remaining()
	if !ok {
		t.Fatal("expected a bound")
	}
	if n != 3 {
		t.Fatalf("got %d", n)
	}

	// A route that dead-ends short of a valid endpoint reports no
	// bound.
	stuck := Seq(Use(inc), Use(tidy))
	if _, ok = NewPrefix(stuck, interface{}(float64(0))).Remaining(); ok {
		t.Fatal("expected no bound")
	}
}

func TestLocations(t *testing.T) {
	inc := Use(incBelow(3))
	s := Label("outer", Seq(
		Label("first", inc),
		Many(Label("second", inc)),
	))

	locs := Locations(s)
	if 3 != len(locs) {
		t.Fatalf("got %v", locs)
	}
	if locs[0].Label != "outer" || locs[0].Depth != 0 {
		t.Fatalf("got %v", locs[0])
	}
	if locs[1].Label != "first" || locs[1].Depth != 1 {
		t.Fatalf("got %v", locs[1])
	}
	if locs[2].Label != "second" || locs[2].Depth != 1 {
		t.Fatalf("got %v", locs[2])
	}
}

func TestConfigure(t *testing.T) {
	a := direct("a", func(n float64) []float64 {
		return []float64{n + 1}
	})
	b := direct("b", func(n float64) []float64 {
		return []float64{n + 2}
	})
	s := Many(Choice(
		Label("adds", Use(a)),
		Label("more", Use(b)),
	))

	got, err := Configure(s, Config{{Action: "disable", Label: "adds"}})
	if err != nil {
		t.Fatal(err)
	}
	steps := FirstSteps(got, interface{}(float64(0)))
	if names := ruleNames(steps); names != "b" {
		t.Fatalf("got %s", names)
	}

	// The disabled label is still visible.
	if 2 != len(Locations(got)) {
		t.Fatalf("got %v", Locations(got))
	}

	// A later action wins.
	got, err = Configure(s, Config{
		{Action: "disable", Label: "adds"},
		{Action: "enable", Label: "adds"},
	})
	if err != nil {
		t.Fatal(err)
	}
	steps = FirstSteps(got, interface{}(float64(0)))
	if names := ruleNames(steps); names != "a,b" {
		t.Fatalf("got %s", names)
	}

	if _, err = Configure(s, Config{{Action: "disable", Label: "nope"}}); err == nil {
		t.Fatal("expected an unknown-label error")
	}
	if _, err = Configure(s, Config{{Action: "pause", Label: "adds"}}); err == nil {
		t.Fatal("expected an unknown-action error")
	}
}

func TestRulesCollect(t *testing.T) {
	a := direct("a", nil)
	b := direct("b", nil)
	s := Seq(Use(a), Choice(Use(b), Use(a)))

	rules := Rules(s)
	if 2 != len(rules) || rules[0].Name != "a" || rules[1].Name != "b" {
		t.Fatalf("got %v", rules)
	}
}
