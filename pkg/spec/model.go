package spec

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aretw0/mframework/pkg/domain"
)

// FeatureEntry is a feature registered in a ModelSpec.
type FeatureEntry struct {
	Name      string
	Spec      *FeatureSpec
	Singleton bool
	Required  bool
	// MinItems is the number of instances a required feature needs; 0 means one.
	MinItems int
	// MaxItems bounds a non-singleton feature; 0 means unbounded.
	MaxItems    int
	UIDRequired bool
	Doc         string
}

// Want returns the number of instances the feature needs to be complete.
func (e FeatureEntry) Want() int {
	if !e.Required {
		return 0
	}
	return max(e.MinItems, 1)
}

// ModelSpec lists the features of a model, in registration order.
type ModelSpec struct {
	uid     string
	doc     string
	entries []*FeatureEntry
	index   map[string]int
	results *ModelSpec
	frozen  bool
	errs    []error
}

// NewModelSpec creates an empty model spec.
func NewModelSpec() *ModelSpec {
	return &ModelSpec{
		uid:   uuid.NewString(),
		index: make(map[string]int),
	}
}

// AddFeatureSpec registers a feature. It fails with domain.ErrDuplicateFeature
// on a name clash and domain.ErrSpecFrozen after compilation.
// Default is not accepted for features.
func (m *ModelSpec) AddFeatureSpec(name string, fs *FeatureSpec, opts ...Option) error {
	if m.frozen {
		return fmt.Errorf("add feature %q: %w", name, domain.ErrSpecFrozen)
	}
	if name == "" {
		return fmt.Errorf("%w: feature name must not be empty", domain.ErrInvalidSpec)
	}
	if fs == nil {
		return fmt.Errorf("%w: feature %q has no spec", domain.ErrInvalidSpec, name)
	}
	if _, exists := m.index[name]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateFeature, name)
	}

	cfg := newItemConfig(opts)
	if err := cfg.check(name); err != nil {
		return err
	}
	if cfg.hasDefault {
		return fmt.Errorf("%w: feature %q cannot declare a default", domain.ErrInvalidSpec, name)
	}

	m.index[name] = len(m.entries)
	m.entries = append(m.entries, &FeatureEntry{
		Name:        name,
		Spec:        fs,
		Singleton:   cfg.singleton,
		Required:    cfg.required,
		MinItems:    cfg.minItems,
		MaxItems:    cfg.maxItems,
		UIDRequired: cfg.uidRequired,
		Doc:         cfg.doc,
	})
	return nil
}

// With registers a feature fluently. Errors are collected and reported by
// Err and by compilation.
func (m *ModelSpec) With(name string, fs *FeatureSpec, opts ...Option) *ModelSpec {
	if err := m.AddFeatureSpec(name, fs, opts...); err != nil {
		m.errs = append(m.errs, err)
	}
	return m
}

// Err returns the errors collected by With and by the fluent builders of the
// registered feature specs.
func (m *ModelSpec) Err() error {
	errs := append([]error(nil), m.errs...)
	for _, e := range m.entries {
		if err := e.Spec.Err(); err != nil {
			errs = append(errs, fmt.Errorf("feature %q: %w", e.Name, err))
		}
	}
	if m.results != nil {
		if err := m.results.Err(); err != nil {
			errs = append(errs, fmt.Errorf("results: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SetResults declares the shape of the solver output.
func (m *ModelSpec) SetResults(results *ModelSpec) error {
	if m.frozen {
		return fmt.Errorf("set results: %w", domain.ErrSpecFrozen)
	}
	for rs := results; rs != nil; rs = rs.results {
		if rs == m {
			return fmt.Errorf("%w: results specs must not form a cycle", domain.ErrInvalidSpec)
		}
	}
	m.results = results
	return nil
}

// Results returns the results spec, or nil.
func (m *ModelSpec) Results() *ModelSpec { return m.results }

// SetDoc sets the model description.
func (m *ModelSpec) SetDoc(doc string) error {
	if m.frozen {
		return fmt.Errorf("set doc: %w", domain.ErrSpecFrozen)
	}
	m.doc = doc
	return nil
}

// Doc returns the model description.
func (m *ModelSpec) Doc() string { return m.doc }

// Feature returns a registered feature entry.
func (m *ModelSpec) Feature(name string) (FeatureEntry, bool) {
	i, ok := m.index[name]
	if !ok {
		return FeatureEntry{}, false
	}
	return *m.entries[i], true
}

// Features returns the registered features in registration order.
func (m *ModelSpec) Features() []FeatureEntry {
	out := make([]FeatureEntry, len(m.entries))
	for i, e := range m.entries {
		out[i] = *e
	}
	return out
}

// Names returns the feature names in registration order.
func (m *ModelSpec) Names() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Name
	}
	return out
}

// UID returns the unique identifier of this spec.
func (m *ModelSpec) UID() string { return m.uid }

// Frozen reports whether the spec can still be modified.
func (m *ModelSpec) Frozen() bool { return m.frozen }

// Freeze makes the spec, its feature templates and its results spec immutable.
func (m *ModelSpec) Freeze() {
	m.frozen = true
	for _, e := range m.entries {
		e.Spec.Freeze()
	}
	if m.results != nil {
		m.results.Freeze()
	}
}
