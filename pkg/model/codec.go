package model

import (
	"fmt"
	"strconv"

	"github.com/mohae/deepcopy"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
)

// Dump exports the stored values of m. Top-level keys are feature names in
// registration order; singleton features map to a document of property
// values, non-singleton features to a list of such documents. Items declared
// with UIDRequired map each uid to its value instead of forming a list.
// Features without instances and properties without values are omitted.
func Dump(m *Model) *document.Document {
	doc := document.New()
	for _, name := range m.typ.order {
		insts := m.features[name]
		if len(insts) == 0 {
			continue
		}
		entry := m.typ.features[name].entry
		if entry.Singleton {
			doc.Set(name, insts[0].dump())
			continue
		}
		if entry.UIDRequired {
			keyed := document.New()
			for _, f := range insts {
				keyed.Set(f.uid, f.dump())
			}
			doc.Set(name, keyed)
			continue
		}
		list := make([]any, len(insts))
		for i, f := range insts {
			list[i] = f.dump()
		}
		doc.Set(name, list)
	}
	return doc
}

func (f *Feature) dump() *document.Document {
	doc := document.New()
	for _, name := range f.ft.order {
		if v, ok := f.values[name]; ok {
			doc.Set(name, deepcopy.Copy(v))
			continue
		}
		stored := f.lists[name]
		if len(stored) == 0 {
			continue
		}
		if uids := f.uids[name]; len(uids) > 0 {
			keyed := document.New()
			for i, v := range stored {
				keyed.Set(uids[i], deepcopy.Copy(v))
			}
			doc.Set(name, keyed)
			continue
		}
		list := make([]any, len(stored))
		for i, v := range stored {
			list[i] = deepcopy.Copy(v)
		}
		doc.Set(name, list)
	}
	return doc
}

// Load builds a model from a document. Unknown names are rejected and every
// value is validated again, as for Set and Add.
func Load(t *Type, doc *document.Document) (*Model, error) {
	return t.Load(doc)
}

// Load builds a model of type t from a document.
func (t *Type) Load(doc *document.Document) (*Model, error) {
	m := t.New()
	if doc == nil {
		return m, nil
	}
	for name, v := range doc.All() {
		ft, err := t.lookup(name)
		if err != nil {
			return nil, err
		}

		if ft.entry.Singleton {
			props, err := asDocument(name, v)
			if err != nil {
				return nil, err
			}
			f, err := m.SetFeature(name)
			if err != nil {
				return nil, err
			}
			if err := f.load(props, name); err != nil {
				return nil, err
			}
			continue
		}

		if ft.entry.UIDRequired {
			keyed, err := asDocument(name, v)
			if err != nil {
				return nil, err
			}
			for uid, item := range keyed.All() {
				path := name + "[" + strconv.Quote(uid) + "]"
				props, err := asDocument(path, item)
				if err != nil {
					return nil, err
				}
				f, err := m.AddFeatureWithUID(name, uid)
				if err != nil {
					return nil, err
				}
				if err := f.load(props, path); err != nil {
					return nil, err
				}
			}
			continue
		}

		list, ok := v.([]any)
		if !ok {
			return nil, &domain.DocumentError{Path: name, Reason: fmt.Sprintf("expected list, got %T", v)}
		}
		for i, item := range list {
			path := name + "[" + strconv.Itoa(i) + "]"
			props, err := asDocument(path, item)
			if err != nil {
				return nil, err
			}
			f, err := m.AddFeature(name)
			if err != nil {
				return nil, err
			}
			if err := f.load(props, path); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (f *Feature) load(props *document.Document, path string) error {
	for name, v := range props.All() {
		p, err := f.ft.prop(name)
		if err != nil {
			return err
		}
		if p.UIDRequired {
			keyed, err := asDocument(path+"."+name, v)
			if err != nil {
				return err
			}
			for uid, item := range keyed.All() {
				if err := f.AddWithUID(name, uid, document.Plain(item)); err != nil {
					return err
				}
			}
			continue
		}
		v = document.Plain(v)
		if p.Singleton {
			if err := f.Set(name, v); err != nil {
				return err
			}
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return &domain.DocumentError{Path: path + "." + name, Reason: fmt.Sprintf("expected list, got %T", v)}
		}
		if err := f.AddMany(name, list...); err != nil {
			return err
		}
	}
	return nil
}

func asDocument(path string, v any) (*document.Document, error) {
	switch v := v.(type) {
	case *document.Document:
		return v, nil
	case map[string]any:
		return document.FromMap(v), nil
	default:
		return nil, &domain.DocumentError{Path: path, Reason: fmt.Sprintf("expected mapping, got %T", v)}
	}
}
