package schema

import (
	"errors"
	"fmt"

	exprlang "github.com/expr-lang/expr"
	celgo "github.com/google/cel-go/cel"
)

const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Expr compiles an expr-lang predicate over the variable "value".
func Expr(source string) (Schema, error) {
	if source == "" {
		return nil, &RuleError{Engine: EngineExpr, Expr: source, Err: errors.New("expression must not be empty")}
	}
	program, err := exprlang.Compile(source,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, &RuleError{Engine: EngineExpr, Expr: source, Err: err}
	}
	return &Rule{
		Engine: EngineExpr,
		Source: source,
		eval: func(value any) (any, error) {
			return exprlang.Run(program, map[string]any{"value": value})
		},
	}, nil
}

// CEL compiles a Common Expression Language predicate over the variable "value".
func CEL(source string) (Schema, error) {
	if source == "" {
		return nil, &RuleError{Engine: EngineCEL, Expr: source, Err: errors.New("expression must not be empty")}
	}
	env, err := celgo.NewEnv(celgo.Variable("value", celgo.DynType))
	if err != nil {
		return nil, &RuleError{Engine: EngineCEL, Expr: source, Err: err}
	}
	ast, issues := env.Parse(source)
	if issues != nil && issues.Err() != nil {
		return nil, &RuleError{Engine: EngineCEL, Expr: source, Err: issues.Err()}
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, &RuleError{Engine: EngineCEL, Expr: source, Err: issues.Err()}
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, &RuleError{Engine: EngineCEL, Expr: source, Err: err}
	}
	return &Rule{
		Engine: EngineCEL,
		Source: source,
		eval: func(value any) (any, error) {
			out, _, err := program.Eval(map[string]any{"value": value})
			if err != nil {
				return nil, err
			}
			return out.Value(), nil
		},
	}, nil
}

// NewRule compiles source with the named engine.
func NewRule(engine, source string) (Schema, error) {
	switch engine {
	case EngineExpr:
		return Expr(source)
	case EngineCEL:
		return CEL(source)
	case EngineJS:
		return JS(source)
	default:
		return nil, fmt.Errorf("schema: unknown rule engine %q", engine)
	}
}
