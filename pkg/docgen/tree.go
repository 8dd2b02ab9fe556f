package docgen

import (
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// Tree is the structured documentation of a ModelSpec.
type Tree struct {
	Doc      string       `json:"doc,omitempty"`
	Features []FeatureDoc `json:"features"`
	Results  *Tree        `json:"results,omitempty"`
}

// FeatureDoc documents one feature entry.
type FeatureDoc struct {
	Name        string        `json:"name"`
	Doc         string        `json:"doc,omitempty"`
	Singleton   bool          `json:"singleton"`
	Required    bool          `json:"required"`
	MinItems    int           `json:"min_items,omitempty"`
	MaxItems    int           `json:"max_items,omitempty"`
	UIDRequired bool          `json:"uid_required,omitempty"`
	Properties  []PropertyDoc `json:"properties"`
}

// PropertyDoc documents one property. Schema holds the descriptor form
// produced by schema.Describe.
type PropertyDoc struct {
	Name        string `json:"name"`
	Doc         string `json:"doc,omitempty"`
	Singleton   bool   `json:"singleton"`
	Required    bool   `json:"required"`
	MinItems    int    `json:"min_items,omitempty"`
	MaxItems    int    `json:"max_items,omitempty"`
	UIDRequired bool   `json:"uid_required,omitempty"`
	Schema      any    `json:"schema"`
	HasDefault  bool   `json:"has_default,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// BuildTree walks ms in registration order. A nil spec yields nil.
func BuildTree(ms *spec.ModelSpec) *Tree {
	return buildTree(ms, map[*spec.ModelSpec]bool{})
}

func buildTree(ms *spec.ModelSpec, seen map[*spec.ModelSpec]bool) *Tree {
	if ms == nil || seen[ms] {
		return nil
	}
	seen[ms] = true

	t := &Tree{Doc: ms.Doc(), Features: []FeatureDoc{}}
	for _, entry := range ms.Features() {
		fd := FeatureDoc{
			Name:        entry.Name,
			Doc:         entry.Doc,
			Singleton:   entry.Singleton,
			Required:    entry.Required,
			MinItems:    entry.MinItems,
			MaxItems:    entry.MaxItems,
			UIDRequired: entry.UIDRequired,
			Properties:  []PropertyDoc{},
		}
		for _, p := range entry.Spec.Properties() {
			pd := PropertyDoc{
				Name:        p.Name,
				Doc:         p.Doc,
				Singleton:   p.Singleton,
				Required:    p.Required,
				MinItems:    p.MinItems,
				MaxItems:    p.MaxItems,
				UIDRequired: p.UIDRequired,
				Schema:      schema.Describe(p.Schema),
			}
			pd.Default, pd.HasDefault = p.Default()
			fd.Properties = append(fd.Properties, pd)
		}
		t.Features = append(t.Features, fd)
	}
	t.Results = buildTree(ms.Results(), seen)
	return t
}

// cardinality renders the instance count of an item, e.g. "1", "0..1",
// "1..*", "2..*" or "0..4".
func cardinality(singleton, required bool, minItems, maxItems int) string {
	lo := "0"
	if required {
		lo = itoa(max(minItems, 1))
	}
	if singleton {
		if required {
			return "1"
		}
		return "0..1"
	}
	hi := "*"
	if maxItems > 0 {
		hi = itoa(maxItems)
	}
	return lo + ".." + hi
}
