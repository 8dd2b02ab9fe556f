package document

import (
	"iter"
	"reflect"
	"sort"

	"github.com/mohae/deepcopy"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is an ordered string-keyed mapping. Values are scalars, lists
// ([]any), plain maps or nested Documents.
type Document struct {
	m *orderedmap.OrderedMap[string, any]
}

// New creates an empty document.
func New() *Document {
	return &Document{m: orderedmap.New[string, any]()}
}

// Set stores v under key. Existing keys keep their position.
func (d *Document) Set(key string, v any) {
	d.m.Set(key, v)
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	return d.m.Get(key)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.m.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	_, ok := d.m.Delete(key)
	return ok
}

// Len returns the number of keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return d.m.Len()
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// All iterates over the entries in insertion order.
func (d *Document) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := New()
	for k, v := range d.All() {
		out.Set(k, cloneValue(v))
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case *Document:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return deepcopy.Copy(v)
	}
}

// ToMap converts the document into plain nested maps, losing key order.
func (d *Document) ToMap() map[string]any {
	out := make(map[string]any, d.Len())
	for k, v := range d.All() {
		out[k] = Plain(v)
	}
	return out
}

// FromMap builds a document from a plain map. Keys are sorted; nested maps
// become documents.
func FromMap(m map[string]any) *Document {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := New()
	for _, k := range keys {
		d.Set(k, fromPlain(m[k]))
	}
	return d
}

func fromPlain(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return FromMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = fromPlain(e)
		}
		return out
	default:
		return v
	}
}

// Plain replaces nested documents in v with plain maps.
func Plain(v any) any {
	switch v := v.(type) {
	case *Document:
		return v.ToMap()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two documents have the same keys in the same order
// and deeply equal values.
func Equal(a, b *Document) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	ak, bk := a.Keys(), b.Keys()
	for i := range ak {
		if ak[i] != bk[i] {
			return false
		}
		av, _ := a.Get(ak[i])
		bv, _ := b.Get(bk[i])
		if !equalValue(av, bv) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	da, aok := a.(*Document)
	db, bok := b.(*Document)
	if aok || bok {
		return aok && bok && Equal(da, db)
	}
	la, aok := a.([]any)
	lb, bok := b.([]any)
	if aok && bok {
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equalValue(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
