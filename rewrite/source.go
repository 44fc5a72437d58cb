package rewrite

import (
	"context"
)

// DefaultInterpreters will be used by TransformSource.Compile if
// given nil interpreters.  Interpreter packages register themselves
// here from their init functions.
var DefaultInterpreters = make(map[string]Interpreter)

// Interpreter can compile and execute code for scripted Direct
// transformations.
//
// Scripted transformations are only available for JSON-shaped terms
// (interface{}), which is what crosses the interpreter boundary.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Exec evaluates the code with the term in scope.  The
	// result of a previous Compile() might be provided.
	//
	// An empty result means the transformation does not apply.
	Exec(ctx context.Context, x interface{}, code interface{}, compiled interface{}) ([]interface{}, error)
}

// TransformSource can be compiled to a Direct transformation.
type TransformSource struct {
	Interpreter string      `json:"interpreter,omitempty" yaml:",omitempty"`
	Source      interface{} `json:"source"`
}

// Compile attempts to compile the TransformSource using the given
// interpreters, which defaults to DefaultInterpreters.
func (s *TransformSource) Compile(ctx context.Context, interpreters map[string]Interpreter) (*Transformation[interface{}], error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}

	interpreter, have := interpreters[s.Interpreter]
	if !have {
		return nil, InterpreterNotFound
	}

	compiled, err := interpreter.Compile(ctx, s.Source)
	if err != nil {
		return nil, err
	}

	return NewDirect(func(x interface{}) []interface{} {
		ys, err := interpreter.Exec(ctx, x, s.Source, compiled)
		if err != nil {
			// A script error is a non-match, not a fault.
			return nil
		}
		return ys
	}), nil
}
