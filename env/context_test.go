package env

import (
	"reflect"
	"testing"
)

// sliceNav navigates []interface{} terms positionally.
type sliceNav struct{}

func (sliceNav) Down(x interface{}, i int) (interface{}, bool) {
	xs, is := x.([]interface{})
	if !is || i < 0 || len(xs) <= i {
		return nil, false
	}
	return xs[i], true
}

func (sliceNav) Replace(x interface{}, i int, child interface{}) interface{} {
	xs := x.([]interface{})
	acc := make([]interface{}, len(xs))
	copy(acc, xs)
	acc[i] = child
	return acc
}

func TestContextNavigation(t *testing.T) {
	x := []interface{}{
		"plus",
		[]interface{}{"times", float64(2), float64(3)},
		float64(4),
	}

	c := NewContext[interface{}](sliceNav{}, x)

	down, ok := c.Down(1)
	if !ok {
		t.Fatal("can't go down")
	}
	if !reflect.DeepEqual(down.Location(), []int{1}) {
		t.Fatalf("got location %v", down.Location())
	}

	deeper, ok := down.Down(2)
	if !ok {
		t.Fatal("can't go down again")
	}
	if f, is := deeper.Focus().(float64); !is || f != 3 {
		t.Fatalf("got focus %#v", deeper.Focus())
	}

	if _, ok = deeper.Down(0); ok {
		t.Fatal("descended into a leaf")
	}

	back, ok := deeper.Up()
	if !ok {
		t.Fatal("can't go up")
	}
	if !reflect.DeepEqual(back.Location(), []int{1}) {
		t.Fatalf("got location %v", back.Location())
	}
}

func TestContextEdit(t *testing.T) {
	x := []interface{}{
		"plus",
		[]interface{}{"times", float64(2), float64(3)},
		float64(4),
	}

	c := NewContext[interface{}](sliceNav{}, x)

	down, _ := c.Down(1)
	edited := down.SetFocus(float64(6))

	want := []interface{}{"plus", float64(6), float64(4)}
	if !reflect.DeepEqual(edited.Term(), want) {
		t.Fatalf("got %#v", edited.Term())
	}

	// The original context is untouched.
	if !reflect.DeepEqual(c.Term(), x) {
		t.Fatalf("original modified: %#v", c.Term())
	}
}

func TestContextEnv(t *testing.T) {
	x := []interface{}{"f", float64(1)}

	c := NewContext[interface{}](sliceNav{}, x)
	if !c.Env().IsEmpty() {
		t.Fatal("fresh context should have an empty environment")
	}

	c2 := c.WithEnv(New().Store("hint", Entry{Value: "try zero", Codec: Text}))
	if _, have := c.Env().Lookup("hint"); have {
		t.Fatal("WithEnv modified its receiver")
	}

	down, _ := c2.Down(1)
	if s, have := down.Env().Text("hint"); !have || s != "try zero" {
		t.Fatal("environment should travel with navigation")
	}
}
