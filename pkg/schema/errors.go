package schema

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable is returned when a rule engine is not compiled in.
var ErrEngineUnavailable = errors.New("schema: rule engine unavailable")

// ValidationError represents a single validation failure.
// Path is empty for the top-level value, otherwise a dotted/indexed location
// such as "dimensions.width" or "[2]".
type ValidationError struct {
	Path   string
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	got := "nil"
	if e.Value != nil {
		got = fmt.Sprintf("%T %v", e.Value, e.Value)
	}
	if e.Path == "" {
		return fmt.Sprintf("%s (got %s)", e.Reason, got)
	}
	return fmt.Sprintf("%s: %s (got %s)", e.Path, e.Reason, got)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// A single *ValidationError is returned as a one-element slice.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return []error{single}
	}
	return nil
}

// RuleError reports a rule that failed to compile or evaluate.
type RuleError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("schema: %s rule %q: %v", e.Engine, e.Expr, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }
