//go:build !js_eval

package schema

// JS is unavailable without the js_eval build tag.
func JS(source string) (Schema, error) {
	return nil, &RuleError{Engine: EngineJS, Expr: source, Err: ErrEngineUnavailable}
}

func jsAvailable() bool { return false }
