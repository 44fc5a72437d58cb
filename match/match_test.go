package match

import (
	"reflect"
	"testing"

	. "github.com/SakastLord/ideas/util/testutil"
)

type matchTest struct {
	title    string
	pattern  interface{}
	term     interface{}
	bindings Bindings
	want     []Bindings
	err      bool
}

var matchTests = []matchTest{
	{
		title:   "constant",
		pattern: Dwimjs(`["plus","?x",0]`),
		term:    Dwimjs(`["plus",3,0]`),
		want:    []Bindings{{"?x": float64(3)}},
	},
	{
		title:   "nested",
		pattern: Dwimjs(`["plus","?x","?x"]`),
		term:    Dwimjs(`["plus",["times",2,3],["times",2,3]]`),
		want:    []Bindings{{"?x": Dwimjs(`["times",2,3]`)}},
	},
	{
		title:   "disagreement",
		pattern: Dwimjs(`["plus","?x","?x"]`),
		term:    Dwimjs(`["plus",1,2]`),
		want:    nil,
	},
	{
		title:   "arity",
		pattern: Dwimjs(`["plus","?x","?y"]`),
		term:    Dwimjs(`["plus",1,2,3]`),
		want:    nil,
	},
	{
		title:   "anonymous",
		pattern: Dwimjs(`["neg","?"]`),
		term:    Dwimjs(`["neg",7]`),
		want:    []Bindings{{}},
	},
	{
		title:   "map",
		pattern: Dwimjs(`{"op":"and","args":"?args"}`),
		term:    Dwimjs(`{"op":"and","args":[true,false]}`),
		want:    []Bindings{{"?args": Dwimjs(`[true,false]`)}},
	},
	{
		title:   "missing key",
		pattern: Dwimjs(`{"op":"and","args":"?args"}`),
		term:    Dwimjs(`{"op":"or"}`),
		want:    nil,
	},
	{
		title:   "property variable",
		pattern: Dwimjs(`{"?p":1}`),
		term:    Dwimjs(`{"a":1,"b":2}`),
		want:    []Bindings{{"?p": "a"}},
	},
	{
		title:   "bad property variable",
		pattern: Dwimjs(`{"?p":1,"q":2}`),
		term:    Dwimjs(`{"a":1,"q":2}`),
		err:     true,
	},
	{
		title:    "initial bindings",
		pattern:  Dwimjs(`["plus","?x","?y"]`),
		term:     Dwimjs(`["plus",1,2]`),
		bindings: Bindings{"?x": float64(1)},
		want:     []Bindings{{"?x": float64(1), "?y": float64(2)}},
	},
	{
		title:    "initial bindings disagreement",
		pattern:  Dwimjs(`["plus","?x","?y"]`),
		term:     Dwimjs(`["plus",1,2]`),
		bindings: Bindings{"?x": float64(3)},
		want:     nil,
	},
	{
		title:   "numbers fudged",
		pattern: []interface{}{"plus", "?x", 0},
		term:    Dwimjs(`["plus",5,0]`),
		want:    []Bindings{{"?x": float64(5)}},
	},
}

func TestMatch(t *testing.T) {
	for _, test := range matchTests {
		t.Run(test.title, func(t *testing.T) {
			bss, err := Match(test.pattern, test.term, test.bindings)
			if test.err {
				if err == nil {
					t.Fatalf("expected an error; got %s", JS(bss))
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(bss) != len(test.want) {
				t.Fatalf("got %s; wanted %s", JS(bss), JS(test.want))
			}
			for i, bs := range bss {
				if !reflect.DeepEqual(map[string]interface{}(bs), map[string]interface{}(test.want[i])) {
					t.Fatalf("got %s; wanted %s", JS(bss), JS(test.want))
				}
			}
		})
	}
}

func TestMatchDoesNotModifyBindings(t *testing.T) {
	bs := Bindings{"?x": float64(1)}
	if _, err := Match(Dwimjs(`["f","?x","?y"]`), Dwimjs(`["f",1,2]`), bs); err != nil {
		t.Fatal(err)
	}
	if _, have := bs["?y"]; have {
		t.Fatal("input bindings were modified")
	}
}

func TestSubstitute(t *testing.T) {
	bs := Bindings{"?x": Dwimjs(`["times",2,3]`)}
	got := Substitute(bs, Dwimjs(`["plus","?x",0]`))
	want := Dwimjs(`["plus",["times",2,3],0]`)
	if !Equal(got, want) {
		t.Fatalf("got %s; wanted %s", JS(got), JS(want))
	}
}

func TestSubstituteDoesNotAlias(t *testing.T) {
	inner := Dwimjs(`["times",2,3]`)
	bs := Bindings{"?x": inner}
	got := Substitute(bs, Dwimjs(`["neg","?x"]`)).([]interface{})
	got[1].([]interface{})[1] = float64(99)
	if !Equal(inner, Dwimjs(`["times",2,3]`)) {
		t.Fatal("substitution aliased the binding value")
	}
}

func TestVars(t *testing.T) {
	got := Vars(Dwimjs(`["plus","?x",["times","?y","?x"]]`))
	want := []string{"?x", "?y"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; wanted %v", got, want)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Dwimjs(`["plus",1,2]`), []interface{}{"plus", 1, 2}) {
		t.Fatal("fudged numbers should be equal")
	}
	if Equal(Dwimjs(`["plus",1,2]`), Dwimjs(`["plus",2,1]`)) {
		t.Fatal("order matters")
	}
}

func BenchmarkMatch(b *testing.B) {
	pattern := Dwimjs(`["plus","?x",["times","?y",0]]`)
	term := Dwimjs(`["plus",7,["times",8,0]]`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Match(pattern, term, nil); err != nil {
			b.Fatal(err)
		}
	}
}
