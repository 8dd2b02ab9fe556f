package graph

import (
	"fmt"
	"strings"
)

// Shape selects the Mermaid node outline.
type Shape int

const (
	// ShapeBox renders [Rectangle].
	ShapeBox Shape = iota
	// ShapeRoot renders ((Circle)).
	ShapeRoot
	// ShapeStack renders [[Subroutine]], used for multiple-instance items.
	ShapeStack
	// ShapeValue renders [/Parallelogram/], used for properties.
	ShapeValue
)

// Node is one vertex of a flowchart.
type Node struct {
	ID    string
	Label string
	Shape Shape
}

// Edge connects two nodes. Dotted edges cross into another model.
type Edge struct {
	From   string
	To     string
	Label  string
	Dotted bool
}

// Overlay marks nodes with state classes, e.g. features that are set or
// required but missing on a live model.
type Overlay struct {
	Set     []string
	Missing []string
}

// GenerateMermaid produces a Mermaid flowchart ("graph TD") from nodes and
// edges, applying overlay styles when provided.
func GenerateMermaid(nodes []Node, edges []Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Shape {
		case ShapeRoot:
			opener, closer = "((", "))"
		case ShapeStack:
			opener, closer = "[[", "]]"
		case ShapeValue:
			opener, closer = "[/", "/]"
		}

		label := node.Label
		if label == "" {
			label = node.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer)
	}

	for _, e := range edges {
		from, to := sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)
		arrow := "-->"
		if e.Dotted {
			arrow = "-.->"
		}
		if e.Label != "" {
			label := escapeLabel(e.Label)
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if e.Dotted {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, to)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills under both themes.
		sb.WriteString("    classDef set fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef missing fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		writeClass(&sb, overlay.Set, "set")
		writeClass(&sb, overlay.Missing, "missing")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	seen := make(map[string]bool)
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		fmt.Fprintf(sb, "    class %s %s;\n", safeID, class)
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
