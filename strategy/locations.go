package strategy

import (
	"fmt"
)

// Location is one labeled subtree of a strategy.
type Location struct {
	// Label is the subtree's name.
	Label string `json:"label"`

	// Depth is the nesting depth among labeled subtrees: 0 for a
	// top-level label, 1 for a label inside one, and so on.
	Depth int `json:"depth"`
}

// Locations enumerates every labeled subtree in pre-order.
func Locations[T any](s Strategy[T]) []Location {
	var acc []Location
	var walk func(Strategy[T], int)
	walk = func(s Strategy[T], depth int) {
		op, label, _, children := Inspect(s)
		if op == "label" {
			acc = append(acc, Location{Label: label, Depth: depth})
			depth++
		}
		for _, c := range children {
			walk(c, depth)
		}
	}
	walk(s, 0)
	return acc
}

// ConfigAction enables or disables one labeled subtree.
type ConfigAction struct {
	// Action is "enable" or "disable".
	Action string `json:"action" yaml:"action"`

	// Label names the subtree.
	Label string `json:"label" yaml:"label"`
}

// Config is an ordered list of actions; a later action on the same
// label wins.
type Config []ConfigAction

// Configure produces an effective strategy in which disabled labeled
// subtrees never fire.  The base strategy is not modified.
//
// Unknown labels and malformed action names are errors, not silently
// ignored.
func Configure[T any](s Strategy[T], cfg Config) (Strategy[T], error) {
	known := make(map[string]bool)
	for _, loc := range Locations(s) {
		known[loc.Label] = true
	}

	disabled := make(map[string]bool)
	for _, a := range cfg {
		if !known[a.Label] {
			return nil, fmt.Errorf(`unknown label "%s"`, a.Label)
		}
		switch a.Action {
		case "enable":
			delete(disabled, a.Label)
		case "disable":
			disabled[a.Label] = true
		default:
			return nil, fmt.Errorf(`unknown action "%s" (want "enable" or "disable")`, a.Action)
		}
	}
	if len(disabled) == 0 {
		return s, nil
	}

	var rebuild func(Strategy[T]) Strategy[T]
	rebuild = func(s Strategy[T]) Strategy[T] {
		switch v := s.(type) {
		case *labelS[T]:
			if disabled[v.name] {
				// Keep the label so it still shows up in
				// Locations.
				return Label(v.name, Fail[T]())
			}
			return Label(v.name, rebuild(v.body))
		case *seqS[T]:
			return Seq(rebuildAll(rebuild, v.items)...)
		case *choiceS[T]:
			return Choice(rebuildAll(rebuild, v.items)...)
		case *manyS[T]:
			return Many(rebuild(v.body))
		case *notS[T]:
			return Not(rebuild(v.body))
		}
		return s
	}
	return rebuild(s), nil
}

func rebuildAll[T any](f func(Strategy[T]) Strategy[T], ss []Strategy[T]) []Strategy[T] {
	acc := make([]Strategy[T], len(ss))
	for i, s := range ss {
		acc[i] = f(s)
	}
	return acc
}
