// Package schema describes and checks the values a property accepts.
//
// A Schema is a closed tagged variant: a bare type check, a numeric
// comparison, an enumeration, a length bound, a pattern, a list of, a nested
// object, an expression rule, a conjunction, or a custom function. Matchers
// switch over the variants exhaustively and never coerce the candidate value.
//
// Basic usage:
//
//	area := schema.All(schema.Float(), schema.Gt(0))
//	if err := schema.Validate(area, -5.0); err != nil {
//	    // must be > 0 (got float64 -5)
//	}
//
// Schemas can also be parsed from descriptors, the form used in spec files:
//
//	s, err := schema.Parse(map[string]any{"type": "float", ">": 0})
//
// Rules are predicates over the variable "value". expr and CEL are always
// available; JavaScript requires the js_eval build tag:
//
//	even, err := schema.Expr("value % 2 == 0")
//	short, err := schema.CEL("size(value) <= 8")
package schema
