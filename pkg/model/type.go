package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/spec"
)

// featureType is the compiled table for one feature entry.
type featureType struct {
	entry spec.FeatureEntry
	props map[string]spec.PropertySpec
	order []string
}

func (ft *featureType) prop(name string) (spec.PropertySpec, error) {
	p, ok := ft.props[name]
	if !ok {
		return spec.PropertySpec{}, &domain.UnknownPropertyError{Feature: ft.entry.Name, Name: name}
	}
	return p, nil
}

// Type is a compiled ModelSpec. It creates empty Model instances bound to the
// spec and holds no per-instance state.
type Type struct {
	spec     *spec.ModelSpec
	cfg      config
	features map[string]*featureType
	order    []string
	results  *Type
}

// Compile freezes ms and builds a runtime type from it. Compiling the same
// spec twice yields independent types.
func Compile(ms *spec.ModelSpec, opts ...Option) (*Type, error) {
	if ms == nil {
		return nil, fmt.Errorf("compile: %w: nil model spec", domain.ErrInvalidSpec)
	}
	if err := ms.Err(); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	cfg := newConfig(opts)
	ms.Freeze()
	t := build(ms, cfg, map[*spec.ModelSpec]bool{})

	cfg.logger.Debug("model type compiled",
		"spec", ms.UID(),
		"features", len(t.order),
		"results", t.results != nil,
	)
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(ms *spec.ModelSpec, opts ...Option) *Type {
	t, err := Compile(ms, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func build(ms *spec.ModelSpec, cfg config, seen map[*spec.ModelSpec]bool) *Type {
	seen[ms] = true
	t := &Type{
		spec:     ms,
		cfg:      cfg,
		features: make(map[string]*featureType),
	}
	for _, entry := range ms.Features() {
		ft := &featureType{
			entry: entry,
			props: make(map[string]spec.PropertySpec),
		}
		for _, p := range entry.Spec.Properties() {
			ft.props[p.Name] = p
			ft.order = append(ft.order, p.Name)
		}
		t.features[entry.Name] = ft
		t.order = append(t.order, entry.Name)
	}
	if rs := ms.Results(); rs != nil && !seen[rs] {
		rcfg := cfg
		rcfg.solver = nil
		t.results = build(rs, rcfg, seen)
	}
	return t
}

// New creates an empty model instance.
func (t *Type) New() *Model {
	m := &Model{
		typ:      t,
		uid:      uuid.NewString(),
		features: make(map[string][]*Feature),
	}
	if t.results != nil {
		m.results = t.results.New()
	}
	return m
}

// Spec returns the compiled spec. It is frozen.
func (t *Type) Spec() *spec.ModelSpec { return t.spec }

// Results returns the compiled results type, or nil.
func (t *Type) Results() *Type { return t.results }

// Names returns the feature names in registration order.
func (t *Type) Names() []string { return append([]string(nil), t.order...) }

func (t *Type) lookup(name string) (*featureType, error) {
	ft, ok := t.features[name]
	if !ok {
		return nil, &domain.UnknownFeatureError{Name: name}
	}
	return ft, nil
}
