package model

import (
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"

	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/spec"
)

// Feature is a runtime instance of a feature entry. Every mutation goes
// through Set, Add or AddMany and is validated against the property schema.
type Feature struct {
	model  *Model
	ft     *featureType
	index  int
	uid    string
	values map[string]any
	lists  map[string][]any
	// uids runs parallel to lists for properties declared with UIDRequired.
	uids map[string][]string
	// defaulted marks values stored by Finalize rather than by the caller.
	defaulted map[string]bool
}

// newFeature creates an instance. An empty uid gets a generated one.
func newFeature(m *Model, ft *featureType, index int, uid string) *Feature {
	if uid == "" {
		uid = uuid.NewString()
	}
	return &Feature{
		model:     m,
		ft:        ft,
		index:     index,
		uid:       uid,
		values:    make(map[string]any),
		lists:     make(map[string][]any),
		uids:      make(map[string][]string),
		defaulted: make(map[string]bool),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string { return f.ft.entry.Name }

// Index returns the position among instances of the same feature.
func (f *Feature) Index() int { return f.index }

// UID returns the identifier given to AddFeatureWithUID, or a generated one.
func (f *Feature) UID() string { return f.uid }

// Entry returns the feature entry the instance is bound to.
func (f *Feature) Entry() spec.FeatureEntry { return f.ft.entry }

// Names returns the property names in registration order.
func (f *Feature) Names() []string { return append([]string(nil), f.ft.order...) }

// Set validates and stores the value of a singleton property. A value filled
// in from the default by Finalize may be replaced under either policy.
func (f *Feature) Set(name string, value any) error {
	p, err := f.ft.prop(name)
	if err != nil {
		return err
	}
	if !p.Singleton {
		return &domain.CardinalityError{Name: name, Op: "Set", Hint: "Add"}
	}
	if _, exists := f.values[name]; exists && !f.defaulted[name] && !f.model.typ.cfg.overwrite {
		return &domain.AlreadySetError{Feature: f.Name(), Property: name}
	}
	if err := f.validate(p, value); err != nil {
		return err
	}

	f.values[name] = deepcopy.Copy(value)
	delete(f.defaulted, name)
	f.stored(name, value)
	return nil
}

// Add validates and appends a value to a non-singleton property.
func (f *Feature) Add(name string, value any) error {
	return f.AddMany(name, value)
}

// AddMany validates every value and then appends them all. Nothing is stored
// if any value is rejected. Values filled in from the default by Finalize
// are discarded first.
func (f *Feature) AddMany(name string, values ...any) error {
	p, err := f.listProp(name, "Add")
	if err != nil {
		return err
	}
	if p.UIDRequired {
		return &domain.UIDError{Feature: f.Name(), Property: name, Reason: "uid required, use AddWithUID"}
	}
	if err := f.checkAppend(p, values); err != nil {
		return err
	}

	for _, v := range values {
		f.lists[name] = append(f.lists[name], deepcopy.Copy(v))
		f.stored(name, v)
	}
	return nil
}

// AddWithUID validates and appends a value identified by uid to a property
// declared with UIDRequired. Uids are unique within the property.
func (f *Feature) AddWithUID(name, uid string, value any) error {
	p, err := f.listProp(name, "AddWithUID")
	if err != nil {
		return err
	}
	if !p.UIDRequired {
		return &domain.UIDError{Feature: f.Name(), Property: name, UID: uid, Reason: "property does not declare uids, use Add"}
	}
	if uid == "" {
		return &domain.UIDError{Feature: f.Name(), Property: name, Reason: "empty uid"}
	}
	if slices.Contains(f.uids[name], uid) {
		return &domain.UIDError{Feature: f.Name(), Property: name, UID: uid, Reason: "duplicate uid"}
	}
	if err := f.checkAppend(p, []any{value}); err != nil {
		return err
	}

	f.lists[name] = append(f.lists[name], deepcopy.Copy(value))
	f.uids[name] = append(f.uids[name], uid)
	f.stored(name, value)
	return nil
}

func (f *Feature) listProp(name, op string) (spec.PropertySpec, error) {
	p, err := f.ft.prop(name)
	if err != nil {
		return p, err
	}
	if p.Singleton {
		return p, &domain.CardinalityError{Name: name, Op: op, Hint: "Set"}
	}
	return p, nil
}

func (f *Feature) checkAppend(p spec.PropertySpec, values []any) error {
	have := len(f.lists[p.Name])
	if f.defaulted[p.Name] {
		have = 0
	}
	if p.MaxItems > 0 && have+len(values) > p.MaxItems {
		return &domain.MaxItemsError{Name: p.Name, Max: p.MaxItems}
	}
	for _, v := range values {
		if err := f.validate(p, v); err != nil {
			return err
		}
	}
	if f.defaulted[p.Name] {
		delete(f.lists, p.Name)
		delete(f.defaulted, p.Name)
	}
	return nil
}

func (f *Feature) validate(p spec.PropertySpec, value any) error {
	cfg := f.model.typ.cfg
	if err := cfg.matcher.Match(p.Schema, value); err != nil {
		invalid := &domain.InvalidValueError{Feature: f.Name(), Property: p.Name, Value: value, Err: err}
		cfg.logger.Warn("value rejected",
			"model", f.model.uid,
			"feature", f.Name(),
			"property", p.Name,
			"err", err,
		)
		if hook := cfg.hooks.OnValueRejected; hook != nil {
			hook(f.valueEvent(domain.EventValueRejected, p.Name, value, invalid))
		}
		return invalid
	}
	return nil
}

func (f *Feature) stored(name string, value any) {
	cfg := f.model.typ.cfg
	cfg.logger.Debug("value stored", "model", f.model.uid, "feature", f.Name(), "index", f.index, "property", name)
	if hook := cfg.hooks.OnValueStored; hook != nil {
		hook(f.valueEvent(domain.EventValueStored, name, value, nil))
	}
}

func (f *Feature) valueEvent(t domain.EventType, name string, value any, err error) *domain.ValueEvent {
	return &domain.ValueEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t, ModelID: f.model.uid},
		Feature:   f.Name(),
		Property:  name,
		Value:     value,
		Err:       err,
	}
}

// Get returns a copy of a property value. Singleton properties yield the
// value, falling back to the default; an unset singleton without default
// fails with domain.ErrNotSet. Non-singleton properties yield a []any.
func (f *Feature) Get(name string) (any, error) {
	p, err := f.ft.prop(name)
	if err != nil {
		return nil, err
	}
	if p.Singleton {
		if v, ok := f.values[name]; ok {
			return deepcopy.Copy(v), nil
		}
		if def, ok := p.Default(); ok {
			return def, nil
		}
		return nil, &domain.NotSetError{Feature: f.Name(), Property: name}
	}
	return f.items(p), nil
}

// Iter returns a restartable sequence over the values of a non-singleton
// property, as of the call.
func (f *Feature) Iter(name string) (iter.Seq[any], error) {
	p, err := f.ft.prop(name)
	if err != nil {
		return nil, err
	}
	if p.Singleton {
		return nil, &domain.CardinalityError{Name: name, Op: "Iter", Hint: "Get"}
	}
	snapshot := f.items(p)
	return func(yield func(any) bool) {
		for _, v := range snapshot {
			if !yield(deepcopy.Copy(v)) {
				return
			}
		}
	}, nil
}

// GetByUID returns a copy of the value stored under uid.
func (f *Feature) GetByUID(name, uid string) (any, error) {
	p, err := f.listProp(name, "GetByUID")
	if err != nil {
		return nil, err
	}
	if !p.UIDRequired {
		return nil, &domain.UIDError{Feature: f.Name(), Property: name, UID: uid, Reason: "property does not declare uids"}
	}
	i := slices.Index(f.uids[name], uid)
	if i < 0 {
		return nil, &domain.UIDError{Feature: f.Name(), Property: name, UID: uid, Reason: "not found"}
	}
	return deepcopy.Copy(f.lists[name][i]), nil
}

// IterUIDs returns a restartable sequence of (uid, value) pairs in insertion
// order, as of the call.
func (f *Feature) IterUIDs(name string) (iter.Seq2[string, any], error) {
	p, err := f.listProp(name, "IterUIDs")
	if err != nil {
		return nil, err
	}
	if !p.UIDRequired {
		return nil, &domain.UIDError{Feature: f.Name(), Property: name, Reason: "property does not declare uids"}
	}
	uids := append([]string(nil), f.uids[name]...)
	values := f.items(p)
	return func(yield func(string, any) bool) {
		for i, uid := range uids {
			if !yield(uid, deepcopy.Copy(values[i])) {
				return
			}
		}
	}, nil
}

// Len returns the number of values a property currently resolves to.
func (f *Feature) Len(name string) (int, error) {
	p, err := f.ft.prop(name)
	if err != nil {
		return 0, err
	}
	if p.Singleton {
		if _, ok := f.values[name]; ok || p.HasDefault() {
			return 1, nil
		}
		return 0, nil
	}
	return len(f.items(p)), nil
}

// IsSet reports whether a value is stored for the property, either by the
// caller or by Finalize.
func (f *Feature) IsSet(name string) bool {
	if _, ok := f.values[name]; ok {
		return true
	}
	return len(f.lists[name]) > 0
}

// IsDefault reports whether the stored value was filled in from the default.
func (f *Feature) IsDefault(name string) bool { return f.defaulted[name] }

// count returns the number of values stored for a property.
func (f *Feature) count(p spec.PropertySpec) int {
	if p.Singleton {
		if _, ok := f.values[p.Name]; ok {
			return 1
		}
		return 0
	}
	return len(f.lists[p.Name])
}

func (f *Feature) items(p spec.PropertySpec) []any {
	if stored := f.lists[p.Name]; len(stored) > 0 {
		out := make([]any, len(stored))
		for i, v := range stored {
			out[i] = deepcopy.Copy(v)
		}
		return out
	}
	if def, ok := p.Default(); ok {
		return def.([]any)
	}
	return []any{}
}

// applyDefaults stores a copy of the default of every unset optional property.
func (f *Feature) applyDefaults() {
	for _, name := range f.ft.order {
		p := f.ft.props[name]
		if f.IsSet(name) {
			continue
		}
		def, ok := p.Default()
		if !ok {
			continue
		}
		if p.Singleton {
			f.values[name] = def
		} else {
			f.lists[name] = def.([]any)
		}
		f.defaulted[name] = true
	}
}
