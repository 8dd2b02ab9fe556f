package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Matcher decides whether a value satisfies a schema.
// A nil error means the value is accepted; otherwise the error explains why not.
type Matcher interface {
	Match(s Schema, value any) error
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(s Schema, value any) error

func (f MatcherFunc) Match(s Schema, value any) error { return f(s, value) }

type defaultMatcher struct{}

func (defaultMatcher) Match(s Schema, value any) error { return Validate(s, value) }

// DefaultMatcher returns the built-in matcher.
func DefaultMatcher() Matcher { return defaultMatcher{} }

// Validate checks value against s. It never converts or corrects the value.
func Validate(s Schema, value any) error {
	return match("", s, value)
}

func match(path string, s Schema, value any) error {
	switch s := s.(type) {
	case nil:
		return fmt.Errorf("schema: nil schema at %q", path)
	case *TypeCheck:
		return matchType(path, s.Base, value)
	case *Comparison:
		x, ok := toFloat(value)
		if !ok {
			return &ValidationError{Path: path, Reason: "expected number", Value: value}
		}
		if !s.holds(x) {
			return &ValidationError{Path: path, Reason: "must be " + s.Name(), Value: value}
		}
		return nil
	case *Enum:
		for _, allowed := range s.Values {
			if equal(allowed, value) {
				return nil
			}
		}
		return &ValidationError{Path: path, Reason: "must be " + s.Name(), Value: value}
	case *Length:
		n, ok := size(value)
		if !ok {
			return &ValidationError{Path: path, Reason: "expected string, list or map", Value: value}
		}
		if n < s.Min {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("length %d is below minimum %d", n, s.Min), Value: value}
		}
		if s.Max >= 0 && n > s.Max {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("length %d exceeds maximum %d", n, s.Max), Value: value}
		}
		return nil
	case *Pattern:
		str, ok := value.(string)
		if !ok {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("expected string, got %T", value), Value: value}
		}
		re := s.re
		if re == nil {
			compiled, err := regexp.Compile(s.Expr)
			if err != nil {
				return &ValidationError{Path: path, Reason: fmt.Sprintf("invalid pattern %q: %v", s.Expr, err), Value: value}
			}
			re = compiled
		}
		if !re.MatchString(str) {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("does not match pattern %q", s.Expr), Value: value}
		}
		return nil
	case *Items:
		rv := reflect.ValueOf(value)
		if !isList(rv) {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("expected list, got %T", value), Value: value}
		}
		for i := 0; i < rv.Len(); i++ {
			if err := match(fmt.Sprintf("%s[%d]", path, i), s.Elem, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case *Object:
		return matchObject(path, s, value)
	case *Rule:
		return matchRule(path, s, value)
	case *AllOf:
		for _, member := range s.Schemas {
			if err := match(path, member, value); err != nil {
				return err
			}
		}
		return nil
	case *CustomCheck:
		if s.validate == nil {
			return &ValidationError{Path: path, Reason: "custom check has no validation function, use Custom", Value: value}
		}
		if err := s.validate(value); err != nil {
			return &ValidationError{Path: path, Reason: err.Error(), Value: value}
		}
		return nil
	default:
		return fmt.Errorf("schema: unsupported schema %T", s)
	}
}

func matchType(path string, base BaseType, value any) error {
	if value == nil {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("expected %s, got nil", base)}
	}
	rv := reflect.ValueOf(value)
	var ok bool
	switch base {
	case TypeString:
		ok = rv.Kind() == reflect.String
	case TypeInt:
		ok = isInteger(rv)
	case TypeFloat:
		ok = isInteger(rv) || isFloat(rv)
	case TypeBool:
		ok = rv.Kind() == reflect.Bool
	case TypeMap:
		ok = rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
	case TypeList:
		ok = isList(rv)
	case TypeAny:
		ok = true
	default:
		return fmt.Errorf("schema: unknown base type %q", base)
	}
	if !ok {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("expected %s, got %T", base, value), Value: value}
	}
	return nil
}

func matchObject(path string, s *Object, value any) error {
	fields, ok := asStringMap(value)
	if !ok {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("expected map, got %T", value), Value: value}
	}

	var errs []error
	for _, f := range s.Fields {
		v, exists := fields[f.Name]
		if !exists {
			if f.Required {
				errs = append(errs, &ValidationError{Path: joinPath(path, f.Name), Reason: "required"})
			}
			continue
		}
		if err := match(joinPath(path, f.Name), f.Schema, v); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Strict {
		for key, v := range fields {
			if _, declared := s.Field(key); !declared {
				errs = append(errs, &ValidationError{Path: joinPath(path, key), Reason: "unexpected key", Value: v})
			}
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &AggregateError{Errors: errs}
	}
}

func matchRule(path string, s *Rule, value any) error {
	eval := s.eval
	if eval == nil {
		compiled, err := NewRule(s.Engine, s.Source)
		if err != nil {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("rule %s does not compile: %v", s.Name(), err), Value: value}
		}
		eval = compiled.(*Rule).eval
	}
	out, err := eval(value)
	if err != nil {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("rule %s failed: %v", s.Name(), err), Value: value}
	}
	passed, ok := out.(bool)
	if !ok {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("rule %s returned %T, want bool", s.Name(), out), Value: value}
	}
	if !passed {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("rule %s not satisfied", s.Name()), Value: value}
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func isInteger(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(rv reflect.Value) bool {
	return rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64
}

func isList(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func toFloat(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func size(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func asStringMap(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// equal compares enumeration members, treating numbers of different kinds by value.
func equal(a, b any) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	return reflect.DeepEqual(a, b)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
