package jterm

import (
	"github.com/SakastLord/ideas/rewrite"
	"github.com/SakastLord/ideas/strategy"
)

// This file builds a small arithmetic-simplification domain that is
// useful to have around for tests, documentation, and command-line
// experiments.

// Somewhere makes the rule apply at any position in the term, not
// just the root.  Results are ordered: root rewrites first, then by
// argument position, left to right.  The wrapper keeps the rule's
// name and flags so recorded paths survive the wrapping.
func Somewhere(r *rewrite.Rule[Term]) *rewrite.Rule[Term] {
	anywhere := rewrite.New(r.Name, rewrite.NewDirect(func(x Term) []Term {
		return rewriteAnywhere(r, x)
	}))
	anywhere.Doc = r.Doc
	anywhere.Buggy = r.Buggy
	anywhere.Minor = r.Minor
	return anywhere
}

func rewriteAnywhere(r *rewrite.Rule[Term], x Term) []Term {
	acc := r.Apply(x)
	xs, is := x.([]interface{})
	if !is {
		return acc
	}
	for i := 1; i < len(xs); i++ {
		for _, y := range rewriteAnywhere(r, xs[i]) {
			nxs := make([]interface{}, len(xs))
			copy(nxs, xs)
			nxs[i] = y
			acc = append(acc, nxs)
		}
	}
	return acc
}

// EvalPlus sums two numeric arguments: ["plus",1,2] becomes 3.
func EvalPlus() *rewrite.Rule[Term] {
	r := rewrite.New("evalPlus", rewrite.NewDirect(func(x Term) []Term {
		xs, is := x.([]interface{})
		if !is || len(xs) != 3 || xs[0] != "plus" {
			return nil
		}
		a, aok := xs[1].(float64)
		b, bok := xs[2].(float64)
		if !aok || !bok {
			return nil
		}
		return []Term{a + b}
	}))
	r.Doc = "Add two constants."
	return r
}

// SplitNumber is a parameterized rule that splits a constant:
// with argument n, the constant c becomes ["plus",n,c-n].
func SplitNumber() *rewrite.Rule[Term] {
	args := []rewrite.ArgSpec{rewrite.NumberArg("n", 1)}

	expected := func(x Term) ([]rewrite.ArgValue, bool) {
		c, is := x.(float64)
		if !is {
			return nil, false
		}
		// Suggest splitting off the integer part.
		n := float64(int(c) / 2)
		return []rewrite.ArgValue{{Label: "n", Value: args[0].Show(n)}}, true
	}

	bind := func(vals []interface{}) (*rewrite.Transformation[Term], error) {
		n := vals[0].(float64)
		return rewrite.NewDirect(func(x Term) []Term {
			c, is := x.(float64)
			if !is {
				return nil
			}
			return []Term{[]interface{}{"plus", n, c - n}}
		}), nil
	}

	t, err := rewrite.NewParameterized(args, expected, bind)
	if err != nil {
		panic(err)
	}
	r := rewrite.New("splitNumber", t)
	r.Doc = "Split a constant c into n + (c - n)."
	return r
}

// AlgebraRules is an example ruleset: enough arithmetic to simplify
// terms like ["plus",["times",2,0],["neg",["neg",3]]].
func AlgebraRules() []*rewrite.Rule[Term] {
	plusZero := MustPatternRule("plusZero", `["plus","?x",0]`, `"?x"`)
	plusZero.Doc = "x + 0 = x"

	zeroPlus := MustPatternRule("zeroPlus", `["plus",0,"?x"]`, `"?x"`)
	zeroPlus.Doc = "0 + x = x"

	timesOne := MustPatternRule("timesOne", `["times","?x",1]`, `"?x"`)
	timesOne.Doc = "x * 1 = x"

	timesZero := MustPatternRule("timesZero", `["times","?",0]`, `0`)
	timesZero.Doc = "x * 0 = 0"

	doubleNeg := MustPatternRule("doubleNeg", `["neg",["neg","?x"]]`, `"?x"`)
	doubleNeg.Doc = "--x = x"

	// A classic misconception: x * 0 = x.
	buggyTimesZero := MustPatternRule("buggyTimesZero", `["times","?x",0]`, `"?x"`)
	buggyTimesZero.Buggy = true
	buggyTimesZero.Doc = "Misconception: x * 0 = x."

	// Administrative cleanup: drop an ["id",...] wrapper.
	unwrapId := MustPatternRule("unwrapId", `["id","?x"]`, `"?x"`)
	unwrapId.Minor = true
	unwrapId.Doc = "Remove an identity wrapper."

	return []*rewrite.Rule[Term]{
		plusZero, zeroPlus, timesOne, timesZero, doubleNeg,
		EvalPlus(), buggyTimesZero, unwrapId,
	}
}

// exhaust repeats the strategy and accepts only when it has nothing
// left to offer.  A bare Many accepts everywhere, which would make
// every term look solved.
func exhaust(s strategy.Strategy[Term]) strategy.Strategy[Term] {
	return strategy.Seq(strategy.Many(s), strategy.Not(s))
}

// AlgebraStrategy simplifies as long as any simplification applies
// anywhere we look.  The misconception branch lets a solver's buggy
// step be recognized as such instead of merely rejected.
func AlgebraStrategy() strategy.Strategy[Term] {
	byName := make(map[string]*rewrite.Rule[Term])
	for _, r := range AlgebraRules() {
		byName[r.Name] = r
	}
	use := func(name string) strategy.Strategy[Term] {
		return strategy.Use(Somewhere(byName[name]))
	}
	return strategy.Label("simplify",
		strategy.Seq(
			exhaust(use("unwrapId")),
			strategy.Label("arith",
				exhaust(strategy.Choice(
					use("evalPlus"),
					use("plusZero"),
					use("zeroPlus"),
					use("timesOne"),
					use("timesZero"),
					use("doubleNeg"),
					strategy.Label("misconceptions",
						use("buggyTimesZero")),
				))),
		))
}
