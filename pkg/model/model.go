package model

import (
	"iter"
	"slices"
	"time"

	"github.com/aretw0/mframework/pkg/domain"
)

// Model is a runtime instance of a compiled spec. It owns its features
// exclusively; instances never share state.
type Model struct {
	typ      *Type
	uid      string
	features map[string][]*Feature
	results  *Model
}

// UID returns the unique identifier of the instance.
func (m *Model) UID() string { return m.uid }

// Type returns the compiled type the instance is bound to.
func (m *Model) Type() *Type { return m.typ }

// Results returns the results model the solver may populate, or nil when the
// spec declares no results.
func (m *Model) Results() *Model { return m.results }

// Names returns the feature names in registration order.
func (m *Model) Names() []string { return m.typ.Names() }

// SetFeature creates the instance of a singleton feature and returns it.
// A second call fails with domain.ErrAlreadySet unless the type was compiled
// WithOverwrite, in which case the previous instance is replaced.
func (m *Model) SetFeature(name string) (*Feature, error) {
	ft, err := m.typ.lookup(name)
	if err != nil {
		return nil, err
	}
	if !ft.entry.Singleton {
		return nil, &domain.CardinalityError{Name: name, Op: "SetFeature", Hint: "AddFeature"}
	}
	if len(m.features[name]) > 0 && !m.typ.cfg.overwrite {
		return nil, &domain.AlreadySetError{Feature: name}
	}

	f := newFeature(m, ft, 0, "")
	m.features[name] = []*Feature{f}
	m.featureCreated(f)
	return f, nil
}

// AddFeature appends a new instance of a non-singleton feature and returns it.
func (m *Model) AddFeature(name string) (*Feature, error) {
	ft, err := m.listFeature(name, "AddFeature")
	if err != nil {
		return nil, err
	}
	if ft.entry.UIDRequired {
		return nil, &domain.UIDError{Feature: name, Reason: "uid required, use AddFeatureWithUID"}
	}
	return m.appendFeature(ft, "")
}

// AddFeatureWithUID appends a new instance identified by uid to a feature
// declared with UIDRequired. Uids are unique within the feature.
func (m *Model) AddFeatureWithUID(name, uid string) (*Feature, error) {
	ft, err := m.listFeature(name, "AddFeatureWithUID")
	if err != nil {
		return nil, err
	}
	if !ft.entry.UIDRequired {
		return nil, &domain.UIDError{Feature: name, UID: uid, Reason: "feature does not declare uids, use AddFeature"}
	}
	if uid == "" {
		return nil, &domain.UIDError{Feature: name, Reason: "empty uid"}
	}
	if m.indexOf(name, uid) >= 0 {
		return nil, &domain.UIDError{Feature: name, UID: uid, Reason: "duplicate uid"}
	}
	return m.appendFeature(ft, uid)
}

func (m *Model) listFeature(name, op string) (*featureType, error) {
	ft, err := m.typ.lookup(name)
	if err != nil {
		return nil, err
	}
	if ft.entry.Singleton {
		return nil, &domain.CardinalityError{Name: name, Op: op, Hint: "SetFeature"}
	}
	return ft, nil
}

func (m *Model) appendFeature(ft *featureType, uid string) (*Feature, error) {
	name := ft.entry.Name
	if ft.entry.MaxItems > 0 && len(m.features[name]) >= ft.entry.MaxItems {
		return nil, &domain.MaxItemsError{Name: name, Max: ft.entry.MaxItems}
	}

	f := newFeature(m, ft, len(m.features[name]), uid)
	m.features[name] = append(m.features[name], f)
	m.featureCreated(f)
	return f, nil
}

func (m *Model) indexOf(name, uid string) int {
	return slices.IndexFunc(m.features[name], func(f *Feature) bool { return f.uid == uid })
}

// GetByUID returns the instance added under uid.
func (m *Model) GetByUID(name, uid string) (*Feature, error) {
	ft, err := m.listFeature(name, "GetByUID")
	if err != nil {
		return nil, err
	}
	if !ft.entry.UIDRequired {
		return nil, &domain.UIDError{Feature: name, UID: uid, Reason: "feature does not declare uids"}
	}
	i := m.indexOf(name, uid)
	if i < 0 {
		return nil, &domain.UIDError{Feature: name, UID: uid, Reason: "not found"}
	}
	return m.features[name][i], nil
}

// IterUIDs returns a restartable sequence of (uid, instance) pairs in
// insertion order, as of the call.
func (m *Model) IterUIDs(name string) (iter.Seq2[string, *Feature], error) {
	ft, err := m.listFeature(name, "IterUIDs")
	if err != nil {
		return nil, err
	}
	if !ft.entry.UIDRequired {
		return nil, &domain.UIDError{Feature: name, Reason: "feature does not declare uids"}
	}
	snapshot := append([]*Feature{}, m.features[name]...)
	return func(yield func(string, *Feature) bool) {
		for _, f := range snapshot {
			if !yield(f.uid, f) {
				return
			}
		}
	}, nil
}

func (m *Model) featureCreated(f *Feature) {
	m.typ.cfg.logger.Debug("feature created", "model", m.uid, "feature", f.Name(), "index", f.index)
	if hook := m.typ.cfg.hooks.OnFeatureCreated; hook != nil {
		hook(&domain.FeatureEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFeatureCreated, ModelID: m.uid},
			Feature:   f.Name(),
			Index:     f.index,
		})
	}
}

// Get returns the *Feature of a singleton feature, or a []*Feature snapshot of
// a non-singleton one. An unset singleton fails with domain.ErrNotSet.
func (m *Model) Get(name string) (any, error) {
	ft, err := m.typ.lookup(name)
	if err != nil {
		return nil, err
	}
	if ft.entry.Singleton {
		f, err := m.Feature(name)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return append([]*Feature{}, m.features[name]...), nil
}

// Feature returns the instance of a singleton feature.
func (m *Model) Feature(name string) (*Feature, error) {
	ft, err := m.typ.lookup(name)
	if err != nil {
		return nil, err
	}
	if !ft.entry.Singleton {
		return nil, &domain.CardinalityError{Name: name, Op: "Feature", Hint: "Features or Iter"}
	}
	insts := m.features[name]
	if len(insts) == 0 {
		return nil, &domain.NotSetError{Feature: name}
	}
	return insts[0], nil
}

// Features returns a snapshot of the instances of a feature, in insertion
// order. A singleton yields zero or one instance.
func (m *Model) Features(name string) ([]*Feature, error) {
	if _, err := m.typ.lookup(name); err != nil {
		return nil, err
	}
	return append([]*Feature{}, m.features[name]...), nil
}

// Iter returns a restartable sequence over the instances of a non-singleton
// feature. The sequence reflects the instances present when Iter was called.
func (m *Model) Iter(name string) (iter.Seq[any], error) {
	ft, err := m.typ.lookup(name)
	if err != nil {
		return nil, err
	}
	if ft.entry.Singleton {
		return nil, &domain.CardinalityError{Name: name, Op: "Iter", Hint: "Get"}
	}
	snapshot := append([]*Feature{}, m.features[name]...)
	return func(yield func(any) bool) {
		for _, f := range snapshot {
			if !yield(f) {
				return
			}
		}
	}, nil
}

// Len returns the number of instances of a feature.
func (m *Model) Len(name string) (int, error) {
	if _, err := m.typ.lookup(name); err != nil {
		return 0, err
	}
	return len(m.features[name]), nil
}

// Has reports whether at least one instance of the feature exists.
func (m *Model) Has(name string) bool {
	return len(m.features[name]) > 0
}
