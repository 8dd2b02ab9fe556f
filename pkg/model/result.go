package model

import (
	"iter"
	"strconv"

	"github.com/mohae/deepcopy"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
)

// Queryable is the read surface shared by Model, Feature and Result.
type Queryable interface {
	Get(name string) (any, error)
	Iter(name string) (iter.Seq[any], error)
	Len(name string) (int, error)
	Names() []string
}

var (
	_ Queryable = (*Model)(nil)
	_ Queryable = (*Feature)(nil)
	_ Queryable = (*Result)(nil)
)

// Result is a read-only view over solver output. Nested mappings are
// returned as *Result, so Get and Iter apply recursively.
type Result struct {
	doc  *document.Document
	path string
}

// NewResult wraps a copy of doc.
func NewResult(doc *document.Document) *Result {
	if doc == nil {
		doc = document.New()
	}
	return &Result{doc: doc.Clone()}
}

// Names returns the keys in document order.
func (r *Result) Names() []string { return r.doc.Keys() }

// Document returns a copy of the underlying document.
func (r *Result) Document() *document.Document { return r.doc.Clone() }

// Get returns the value under name. Mappings are wrapped as *Result and
// lists as []any of wrapped values.
func (r *Result) Get(name string) (any, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return r.wrap(name, v), nil
}

// Iter returns a restartable sequence over a list value.
func (r *Result) Iter(name string) (iter.Seq[any], error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &domain.CardinalityError{Name: name, Op: "Iter", Hint: "Get"}
	}
	return func(yield func(any) bool) {
		for i, e := range list {
			if !yield(r.wrapItem(name, i, e)) {
				return
			}
		}
	}, nil
}

// Len returns the length of a list value, the size of a mapping, or 1.
func (r *Result) Len(name string) (int, error) {
	v, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	switch v := v.(type) {
	case []any:
		return len(v), nil
	case *document.Document:
		return v.Len(), nil
	default:
		return 1, nil
	}
}

func (r *Result) lookup(name string) (any, error) {
	v, ok := r.doc.Get(name)
	if !ok {
		if r.path == "" {
			return nil, &domain.UnknownFeatureError{Name: name}
		}
		return nil, &domain.UnknownPropertyError{Feature: r.path, Name: name}
	}
	return v, nil
}

func (r *Result) child(path string, doc *document.Document) *Result {
	return &Result{doc: doc, path: path}
}

func (r *Result) subpath(name string) string {
	if r.path == "" {
		return name
	}
	return r.path + "." + name
}

func (r *Result) wrap(name string, v any) any {
	switch v := v.(type) {
	case *document.Document:
		return r.child(r.subpath(name), v)
	case map[string]any:
		return r.child(r.subpath(name), document.FromMap(v))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = r.wrapItem(name, i, e)
		}
		return out
	default:
		return deepcopy.Copy(v)
	}
}

func (r *Result) wrapItem(name string, i int, v any) any {
	path := r.subpath(name) + "[" + strconv.Itoa(i) + "]"
	switch v := v.(type) {
	case *document.Document:
		return r.child(path, v)
	case map[string]any:
		return r.child(path, document.FromMap(v))
	default:
		return r.wrap(name, v)
	}
}
