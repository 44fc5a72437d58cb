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

// Package goja provides a Goja-based ECMAScript interpreter for
// scripted transformations.
package goja

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/SakastLord/ideas/match"

	"github.com/dop251/goja"
)

// Interpreter implements rewrite.Interpreter using Goja.
//
// The code is evaluated with the subject term bound to x.  A result
// of null or undefined means the transformation does not apply; an
// array result gives the alternative results; anything else is a
// single result.
type Interpreter struct {
	// LibraryProvider resolves "requires" names into library
	// source.  When nil, DefaultLibraryProvider is used.
	LibraryProvider func(ctx context.Context, i *Interpreter, libraryName string) (string, error)
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// ProvideLibrary resolves the library name into library source.
func (i *Interpreter) ProvideLibrary(ctx context.Context, name string) (string, error) {
	if i.LibraryProvider != nil {
		return i.LibraryProvider(ctx, i, name)
	}
	return DefaultLibraryProvider(ctx, i, name)
}

var DefaultLibraryProvider = MakeFileLibraryProvider(".")

// MakeFileLibraryProvider supports library names that are URLs with a
// protocol of "file", resolved relative to the given directory.
func MakeFileLibraryProvider(dir string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		parts := strings.SplitN(name, "://", 2)
		if 2 != len(parts) {
			return "", fmt.Errorf("bad link '%s'", name)
		}
		switch parts[0] {
		case "file":
			bs, err := os.ReadFile(dir + "/" + parts[1])
			if err != nil {
				return "", err
			}
			return string(bs), nil
		default:
			return "", fmt.Errorf("unknown protocol '%s'", parts[0])
		}
	}
}

// MakeMapLibraryProvider serves libraries from the given map.
func MakeMapLibraryProvider(srcs map[string]string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		src, have := srcs[name]
		if !have {
			return "", fmt.Errorf("undefined library '%s'", name)
		}
		return src, nil
	}
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

func parseSource(vv map[string]interface{}) (code string, libs []string, err error) {
	x, have := vv["code"]
	if !have {
		code = ""
	}
	if s, is := x.(string); is {
		code = s
	} else {
		err = errors.New("bad Goja transformation code")
		return
	}

	x = vv["requires"]
	switch vv := x.(type) {
	case string:
		libs = []string{vv}
	case []string:
		libs = vv
	case []interface{}:
		libs = make([]string, 0, len(vv))
		for _, x := range vv {
			switch vv := x.(type) {
			case string:
				libs = append(libs, vv)
			default:
				err = errors.New("bad library")
				return
			}
		}
	}

	return
}

// AsSource extracts code and required libraries from transformation
// source, which is either a bare string of code or a map with "code"
// and optional "requires" properties.
func AsSource(src interface{}) (code string, libs []string, err error) {
	switch vv := src.(type) {
	case string:
		code = vv
		return
	case map[interface{}]interface{}:
		m := make(map[string]interface{})
		for k, v := range vv {
			str, ok := k.(string)
			if !ok {
				err = fmt.Errorf("bad src key (%T)", k)
				return
			}
			m[str] = v
		}
		return parseSource(m)
	case map[string]interface{}:
		return parseSource(vv)
	default:
		err = fmt.Errorf("bad Goja source (%T)", src)
		return
	}
}

// Compile calls goja.Compile after gathering any required libraries.
//
// This method can block if the interpreter's LibraryProvider blocks.
func (i *Interpreter) Compile(ctx context.Context, src interface{}) (interface{}, error) {
	code, libs, err := AsSource(src)
	if err != nil {
		return nil, err
	}

	code = wrapSrc(code)

	var libsSrc string
	for _, lib := range libs {
		libSrc, err := i.ProvideLibrary(ctx, lib)
		if err != nil {
			return nil, err
		}
		libsSrc += libSrc + "\n"
	}

	code = libsSrc + code

	obj, err := goja.Compile("", code, true)
	if err != nil {
		return nil, errors.New(err.Error() + ": " + code)
	}

	return obj, nil
}

func protest(o *goja.Runtime, x interface{}) {
	panic(o.ToValue(x))
}

// Exec implements the Interpreter method of the same name.
//
// The following are available from the runtime:
//
//	x: the subject term.
//	_.match(pat, term): execute the pattern matcher.
//	_.esc(s): URL query-escape the given string.
//
// The value the code returns determines the results.  Null or
// undefined means no results (the transformation does not apply), an
// array gives one result per element, and any other value is a
// single result.
func (i *Interpreter) Exec(ctx context.Context, x interface{}, src interface{}, compiled interface{}) ([]interface{}, error) {
	var p *goja.Program
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, src); err != nil {
			return nil, err
		}
	}
	var is bool
	if p, is = compiled.(*goja.Program); !is {
		return nil, fmt.Errorf("Goja bad compilation: %T %#v", compiled, compiled)
	}

	o := goja.New()

	o.Set("x", match.Copy(x))

	env := map[string]interface{}{
		"ctx": ctx,
	}

	env["esc"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		s, is := x.(string)
		if !is {
			protest(o, "not a string")
		}
		return url.QueryEscape(s)
	}

	env["match"] = func(pat, term interface{}) interface{} {
		switch vv := pat.(type) {
		case goja.Value:
			pat = vv.Export()
		}
		switch vv := term.(type) {
		case goja.Value:
			term = vv.Export()
		}
		bss, err := match.Match(pat, term, match.NewBindings())
		if err != nil {
			protest(o, err.Error())
		}
		acc := make([]interface{}, 0, len(bss))
		for _, bs := range bss {
			acc = append(acc, map[string]interface{}(bs))
		}
		return acc
	}

	o.Set("_", env)

	v, err := func() (v goja.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("Goja panic: %v", r)
			}
		}()
		return o.RunProgram(p)
	}()
	if err != nil {
		return nil, err
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}

	switch vv := v.Export().(type) {
	case []interface{}:
		return vv, nil
	default:
		return []interface{}{vv}, nil
	}
}
