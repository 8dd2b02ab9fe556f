package spec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"

	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/schema"
)

// PropertySpec declares one property of a feature.
type PropertySpec struct {
	Name      string
	Schema    schema.Schema
	Singleton bool
	Required  bool
	// MinItems is the number of values a required property needs; 0 means one.
	MinItems int
	// MaxItems bounds a non-singleton property; 0 means unbounded.
	MaxItems    int
	UIDRequired bool
	Doc         string

	def        any
	hasDefault bool
}

// Want returns the number of values the property needs to be complete.
func (p PropertySpec) Want() int {
	if !p.Required {
		return 0
	}
	return max(p.MinItems, 1)
}

// Default returns a private copy of the declared default.
func (p PropertySpec) Default() (any, bool) {
	if !p.hasDefault {
		return nil, false
	}
	return deepcopy.Copy(p.def), true
}

// HasDefault reports whether a default was declared.
func (p PropertySpec) HasDefault() bool { return p.hasDefault }

// FeatureSpec is a template listing the properties of a feature.
// It becomes immutable once a ModelSpec using it is compiled.
type FeatureSpec struct {
	uid    string
	props  []*PropertySpec
	index  map[string]int
	frozen bool
	errs   []error
}

// NewFeatureSpec creates an empty feature template.
func NewFeatureSpec() *FeatureSpec {
	return &FeatureSpec{
		uid:   uuid.NewString(),
		index: make(map[string]int),
	}
}

// AddPropSpec registers a property. It fails with domain.ErrDuplicateProperty
// on a name clash, domain.ErrSpecFrozen after compilation, and
// domain.ErrInvalidValue when the default does not match the schema.
func (f *FeatureSpec) AddPropSpec(name string, s schema.Schema, opts ...Option) error {
	if f.frozen {
		return fmt.Errorf("add property %q: %w", name, domain.ErrSpecFrozen)
	}
	if name == "" {
		return fmt.Errorf("%w: property name must not be empty", domain.ErrInvalidSpec)
	}
	if s == nil {
		return fmt.Errorf("%w: property %q has no schema", domain.ErrInvalidSpec, name)
	}
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateProperty, name)
	}

	cfg := newItemConfig(opts)
	if err := cfg.check(name); err != nil {
		return err
	}

	p := &PropertySpec{
		Name:        name,
		Schema:      s,
		Singleton:   cfg.singleton,
		Required:    cfg.required,
		MinItems:    cfg.minItems,
		MaxItems:    cfg.maxItems,
		UIDRequired: cfg.uidRequired,
		Doc:         cfg.doc,
	}
	if cfg.hasDefault {
		def, err := checkDefault(p, cfg.def)
		if err != nil {
			return err
		}
		p.def = def
		p.hasDefault = true
	}

	f.index[name] = len(f.props)
	f.props = append(f.props, p)
	return nil
}

// MustAddPropSpec is like AddPropSpec but panics on error.
func (f *FeatureSpec) MustAddPropSpec(name string, s schema.Schema, opts ...Option) *FeatureSpec {
	if err := f.AddPropSpec(name, s, opts...); err != nil {
		panic(err)
	}
	return f
}

// Prop registers a property fluently. Errors are collected and reported by
// Err and by compilation.
func (f *FeatureSpec) Prop(name string, s schema.Schema, opts ...Option) *FeatureSpec {
	if err := f.AddPropSpec(name, s, opts...); err != nil {
		f.errs = append(f.errs, err)
	}
	return f
}

// Err returns the errors collected by Prop.
func (f *FeatureSpec) Err() error {
	return errors.Join(f.errs...)
}

func checkDefault(p *PropertySpec, def any) (any, error) {
	invalid := func(v any, err error) error {
		return &domain.InvalidValueError{Property: p.Name, Value: v, Err: fmt.Errorf("default: %w", err)}
	}
	if def == nil {
		return nil, fmt.Errorf("%w: property %q has a nil default", domain.ErrInvalidSpec, p.Name)
	}
	if p.Singleton {
		if err := schema.Validate(p.Schema, def); err != nil {
			return nil, invalid(def, err)
		}
		return deepcopy.Copy(def), nil
	}

	rv := reflect.ValueOf(def)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: default of multiple property %q must be a list, got %T", domain.ErrInvalidSpec, p.Name, def)
	}
	if p.MaxItems > 0 && rv.Len() > p.MaxItems {
		return nil, &domain.MaxItemsError{Name: p.Name, Max: p.MaxItems}
	}
	items := make([]any, rv.Len())
	for i := range items {
		v := rv.Index(i).Interface()
		if err := schema.Validate(p.Schema, v); err != nil {
			return nil, invalid(v, err)
		}
		items[i] = deepcopy.Copy(v)
	}
	return items, nil
}

// Property returns the spec of a registered property.
func (f *FeatureSpec) Property(name string) (PropertySpec, bool) {
	i, ok := f.index[name]
	if !ok {
		return PropertySpec{}, false
	}
	return *f.props[i], true
}

// Properties returns the registered properties in registration order.
func (f *FeatureSpec) Properties() []PropertySpec {
	out := make([]PropertySpec, len(f.props))
	for i, p := range f.props {
		out[i] = *p
	}
	return out
}

// Names returns the property names in registration order.
func (f *FeatureSpec) Names() []string {
	out := make([]string, len(f.props))
	for i, p := range f.props {
		out[i] = p.Name
	}
	return out
}

// Len returns the number of registered properties.
func (f *FeatureSpec) Len() int { return len(f.props) }

// UID returns the unique identifier of this template.
func (f *FeatureSpec) UID() string { return f.uid }

// Frozen reports whether the template can still be modified.
func (f *FeatureSpec) Frozen() bool { return f.frozen }

// Freeze makes the template immutable. Compilation calls it.
func (f *FeatureSpec) Freeze() { f.frozen = true }
