//go:build js_eval

package schema

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// JS compiles a JavaScript predicate over the variable "value".
// A fresh runtime is used per evaluation.
func JS(source string) (Schema, error) {
	if source == "" {
		return nil, &RuleError{Engine: EngineJS, Expr: source, Err: errors.New("expression must not be empty")}
	}
	program, err := goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", source), false)
	if err != nil {
		return nil, &RuleError{Engine: EngineJS, Expr: source, Err: err}
	}
	return &Rule{
		Engine: EngineJS,
		Source: source,
		eval: func(value any) (any, error) {
			vm := goja.New()
			if err := vm.Set("value", value); err != nil {
				return nil, err
			}
			out, err := vm.RunProgram(program)
			if err != nil {
				return nil, err
			}
			return out.Export(), nil
		},
	}, nil
}

func jsAvailable() bool { return true }
