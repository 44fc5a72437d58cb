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

// Package interpreters gathers the interpreters that scripted
// transformations can use.
package interpreters

import (
	"context"

	"github.com/SakastLord/ideas/interpreters/goja"
	"github.com/SakastLord/ideas/rewrite"
)

// Standard returns the map of interpreters that rulesets get by
// default.
func Standard() map[string]rewrite.Interpreter {
	is := make(map[string]rewrite.Interpreter)

	g := goja.NewInterpreter()
	is["goja"] = g
	is["ecmascript"] = g

	is["noop"] = NewNoop()

	return is
}

// Noop is an interpreter that ignores its code and passes the term
// through unchanged.  Useful in tests and as a placeholder in
// rulesets under development.
type Noop struct {
	// Silent, if true, makes the transformation report no result
	// instead of the unchanged term.
	Silent bool
}

func NewNoop() *Noop {
	return &Noop{}
}

func (i *Noop) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	return nil, nil
}

func (i *Noop) Exec(ctx context.Context, x interface{}, code interface{}, compiled interface{}) ([]interface{}, error) {
	if i.Silent {
		return nil, nil
	}
	return []interface{}{x}, nil
}
