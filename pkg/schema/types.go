package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind tags the variant of a Schema.
type Kind int

const (
	KindType Kind = iota + 1
	KindComparison
	KindEnum
	KindLength
	KindPattern
	KindItems
	KindObject
	KindRule
	KindAll
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindComparison:
		return "comparison"
	case KindEnum:
		return "enum"
	case KindLength:
		return "length"
	case KindPattern:
		return "pattern"
	case KindItems:
		return "items"
	case KindObject:
		return "object"
	case KindRule:
		return "rule"
	case KindAll:
		return "all"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Schema describes the values a property accepts.
// The set of implementations is closed; matchers switch over them exhaustively.
type Schema interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Name returns a short human-readable rendering (e.g., "float", "> 0").
	Name() string

	sealed()
}

// BaseType is the tag checked by a TypeCheck.
type BaseType string

const (
	TypeString BaseType = "string"
	TypeInt    BaseType = "int"
	TypeFloat  BaseType = "float"
	TypeBool   BaseType = "bool"
	TypeMap    BaseType = "map"
	TypeList   BaseType = "list"
	TypeAny    BaseType = "any"
)

// TypeCheck requires the value to be of a base type.
// TypeFloat also accepts integer kinds; TypeInt rejects floats.
type TypeCheck struct {
	Base BaseType
}

func (*TypeCheck) Kind() Kind     { return KindType }
func (t *TypeCheck) Name() string { return string(t.Base) }
func (*TypeCheck) sealed()        {}

// Op is a numeric comparison operator.
type Op string

const (
	OpGt Op = ">"
	OpGe Op = ">="
	OpLt Op = "<"
	OpLe Op = "<="
)

// Comparison bounds a numeric value.
type Comparison struct {
	Op    Op
	Bound float64
}

func (*Comparison) Kind() Kind { return KindComparison }
func (c *Comparison) Name() string {
	return fmt.Sprintf("%s %s", c.Op, formatNumber(c.Bound))
}
func (*Comparison) sealed() {}

func (c *Comparison) holds(x float64) bool {
	switch c.Op {
	case OpGt:
		return x > c.Bound
	case OpGe:
		return x >= c.Bound
	case OpLt:
		return x < c.Bound
	case OpLe:
		return x <= c.Bound
	}
	return false
}

// Enum restricts the value to a fixed set.
type Enum struct {
	Values []any
}

func (*Enum) Kind() Kind { return KindEnum }
func (e *Enum) Name() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = fmt.Sprint(v)
	}
	return "one of [" + strings.Join(parts, ", ") + "]"
}
func (*Enum) sealed() {}

// Length bounds the size of a string, list or map. Max < 0 means unbounded.
type Length struct {
	Min int
	Max int
}

func (*Length) Kind() Kind { return KindLength }
func (l *Length) Name() string {
	if l.Max < 0 {
		return fmt.Sprintf("len >= %d", l.Min)
	}
	return fmt.Sprintf("len %d..%d", l.Min, l.Max)
}
func (*Length) sealed() {}

// Pattern requires a string matching a regular expression.
type Pattern struct {
	Expr string
	re   *regexp.Regexp
}

func (*Pattern) Kind() Kind     { return KindPattern }
func (p *Pattern) Name() string { return fmt.Sprintf("matches %q", p.Expr) }
func (*Pattern) sealed()        {}

// Items requires a list whose every element matches Elem.
type Items struct {
	Elem Schema
}

func (*Items) Kind() Kind     { return KindItems }
func (i *Items) Name() string { return fmt.Sprintf("[%s]", i.Elem.Name()) }
func (*Items) sealed()        {}

// Field is a named entry of an Object schema.
type Field struct {
	Name     string
	Schema   Schema
	Required bool
}

// Object requires a string-keyed map whose entries match the declared fields.
// Strict objects reject undeclared keys.
type Object struct {
	Fields []Field
	Strict bool
}

func (*Object) Kind() Kind { return KindObject }
func (o *Object) Name() string {
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		parts[i] = f.Name + ": " + f.Schema.Name()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (*Object) sealed() {}

// Field returns the declared field with the given name.
func (o *Object) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Rule is a boolean predicate written in an expression language.
// The candidate is bound to the variable "value".
type Rule struct {
	Engine string
	Source string
	eval   func(value any) (any, error)
}

func (*Rule) Kind() Kind     { return KindRule }
func (r *Rule) Name() string { return fmt.Sprintf("%s(%s)", r.Engine, r.Source) }
func (*Rule) sealed()        {}

// AllOf requires every member schema to match.
type AllOf struct {
	Schemas []Schema
}

func (*AllOf) Kind() Kind { return KindAll }
func (a *AllOf) Name() string {
	parts := make([]string, len(a.Schemas))
	for i, s := range a.Schemas {
		parts[i] = s.Name()
	}
	return strings.Join(parts, ", ")
}
func (*AllOf) sealed() {}

// CustomCheck applies a user-defined validation function.
type CustomCheck struct {
	name     string
	validate func(any) error
}

func (*CustomCheck) Kind() Kind     { return KindCustom }
func (c *CustomCheck) Name() string { return c.name }
func (*CustomCheck) sealed()        {}

// --- Factory Functions ---

// String creates a string type check.
func String() Schema { return &TypeCheck{Base: TypeString} }

// Int creates an integer type check.
func Int() Schema { return &TypeCheck{Base: TypeInt} }

// Float creates a numeric type check.
func Float() Schema { return &TypeCheck{Base: TypeFloat} }

// Bool creates a boolean type check.
func Bool() Schema { return &TypeCheck{Base: TypeBool} }

// Map creates a string-keyed map type check.
func Map() Schema { return &TypeCheck{Base: TypeMap} }

// List creates a list type check with unconstrained elements.
func List() Schema { return &TypeCheck{Base: TypeList} }

// Any accepts every non-nil value.
func Any() Schema { return &TypeCheck{Base: TypeAny} }

func Gt(bound float64) Schema { return &Comparison{Op: OpGt, Bound: bound} }
func Ge(bound float64) Schema { return &Comparison{Op: OpGe, Bound: bound} }
func Lt(bound float64) Schema { return &Comparison{Op: OpLt, Bound: bound} }
func Le(bound float64) Schema { return &Comparison{Op: OpLe, Bound: bound} }

// OneOf restricts values to the given set.
func OneOf(values ...any) Schema { return &Enum{Values: values} }

// MinLen requires a size of at least n.
func MinLen(n int) Schema { return &Length{Min: n, Max: -1} }

// MaxLen requires a size of at most n.
func MaxLen(n int) Schema { return &Length{Min: 0, Max: n} }

// LenRange requires a size within [min, max].
func LenRange(min, max int) Schema { return &Length{Min: min, Max: max} }

// Match compiles a pattern schema.
func Match(expr string) (Schema, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("schema: invalid pattern %q: %w", expr, err)
	}
	return &Pattern{Expr: expr, re: re}, nil
}

// MustMatch is like Match but panics on an invalid pattern.
func MustMatch(expr string) Schema {
	s, err := Match(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Slice creates a list schema whose elements match elem.
func Slice(elem Schema) Schema { return &Items{Elem: elem} }

// ObjectOf creates a non-strict object schema.
func ObjectOf(fields ...Field) *Object { return &Object{Fields: fields} }

// Optional declares an object field that may be absent.
func Optional(name string, s Schema) Field { return Field{Name: name, Schema: s} }

// Required declares an object field that must be present.
func Required(name string, s Schema) Field { return Field{Name: name, Schema: s, Required: true} }

// All combines schemas conjunctively. A single schema is returned unchanged.
func All(schemas ...Schema) Schema {
	if len(schemas) == 1 {
		return schemas[0]
	}
	return &AllOf{Schemas: schemas}
}

// Custom creates a schema backed by a user-defined function.
func Custom(name string, validate func(any) error) Schema {
	return &CustomCheck{name: name, validate: validate}
}

// PositiveFloat is the common "float, > 0" schema.
func PositiveFloat() Schema { return All(Float(), Gt(0)) }
