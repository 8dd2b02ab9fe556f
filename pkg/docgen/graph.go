package docgen

import (
	"github.com/aretw0/mframework/internal/presentation/graph"
	"github.com/aretw0/mframework/pkg/model"
	"github.com/aretw0/mframework/pkg/spec"
)

// FeatureGraph renders the feature tree of ms as a Mermaid "graph TD".
// Edges carry the cardinality of the target; a results spec hangs off the
// root through a dotted edge.
func FeatureGraph(ms *spec.ModelSpec) string {
	nodes, edges := graphOf(BuildTree(ms))
	return graph.GenerateMermaid(nodes, edges, nil)
}

// ModelGraph renders the feature tree of a live model, marking features
// that have instances and required features that are still missing.
func ModelGraph(m *model.Model) string {
	ms := m.Type().Spec()
	nodes, edges := graphOf(BuildTree(ms))

	overlay := &graph.Overlay{}
	for _, entry := range ms.Features() {
		id := featureID("", entry.Name)
		switch {
		case m.Has(entry.Name):
			overlay.Set = append(overlay.Set, id)
		case entry.Required:
			overlay.Missing = append(overlay.Missing, id)
		}
	}
	return graph.GenerateMermaid(nodes, edges, overlay)
}

func featureID(prefix, name string) string { return prefix + "feature/" + name }

func graphOf(t *Tree) ([]graph.Node, []graph.Edge) {
	var nodes []graph.Node
	var edges []graph.Edge
	if t == nil {
		return nodes, edges
	}

	var walk func(t *Tree, prefix, root, label string)
	walk = func(t *Tree, prefix, root, label string) {
		nodes = append(nodes, graph.Node{ID: root, Label: label, Shape: graph.ShapeRoot})
		for _, f := range t.Features {
			fid := featureID(prefix, f.Name)
			shape := graph.ShapeBox
			if !f.Singleton {
				shape = graph.ShapeStack
			}
			nodes = append(nodes, graph.Node{ID: fid, Label: f.Name, Shape: shape})
			edges = append(edges, graph.Edge{From: root, To: fid, Label: cardinality(f.Singleton, f.Required, f.MinItems, f.MaxItems)})

			for _, p := range f.Properties {
				pid := fid + "/" + p.Name
				nodes = append(nodes, graph.Node{ID: pid, Label: p.Name + ": " + inline(p.Schema), Shape: graph.ShapeValue})
				edges = append(edges, graph.Edge{From: fid, To: pid, Label: cardinality(p.Singleton, p.Required, p.MinItems, p.MaxItems)})
			}
		}
		if t.Results != nil {
			rroot := prefix + "results"
			edges = append(edges, graph.Edge{From: root, To: rroot, Label: "results", Dotted: true})
			walk(t.Results, rroot+"/", rroot, "Results")
		}
	}
	walk(t, "", "model", "Model")
	return nodes, edges
}
