package docgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/mframework/pkg/spec"
)

var underline = [...]string{"=", "-", "~", "^"}

// RST renders user documentation for ms as reStructuredText. Section levels
// are underlined with "=", "-", "~" and "^".
func RST(ms *spec.ModelSpec, title string) string {
	var sb strings.Builder
	writeRST(&sb, BuildTree(ms), title, ms, 0)
	return sb.String()
}

func header(sb *strings.Builder, text string, level int) {
	fmt.Fprintf(sb, "%s\n%s\n\n", text, strings.Repeat(underline[level], len([]rune(text))))
}

func writeRST(sb *strings.Builder, t *Tree, title string, ms *spec.ModelSpec, level int) {
	header(sb, title, level)
	if t == nil {
		sb.WriteString("*No specification.*\n")
		return
	}
	if t.Doc != "" {
		fmt.Fprintf(sb, "%s\n\n", t.Doc)
	}

	sb.WriteString(".. mermaid::\n\n")
	for _, line := range strings.Split(strings.TrimRight(FeatureGraph(ms), "\n"), "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(sb, "    %s\n", line)
	}
	sb.WriteString("\n")

	for _, f := range t.Features {
		header(sb, "Feature: "+f.Name, level+1)
		if f.Doc != "" {
			fmt.Fprintf(sb, "*Description*: %s\n\n", f.Doc)
		}
		fmt.Fprintf(sb, "*Singleton*: %s\n\n", yesNo(f.Singleton))
		fmt.Fprintf(sb, "*Required*: %s\n\n", yesNo(f.Required))
		if f.MinItems > 1 {
			fmt.Fprintf(sb, "*Min items*: %d\n\n", f.MinItems)
		}
		if f.MaxItems > 0 {
			fmt.Fprintf(sb, "*Max items*: %d\n\n", f.MaxItems)
		}
		if f.UIDRequired {
			sb.WriteString("*UID required*: yes\n\n")
		}

		for _, p := range f.Properties {
			header(sb, "Property: "+p.Name, level+2)
			if p.Doc != "" {
				fmt.Fprintf(sb, "*Description*: %s\n\n", p.Doc)
			}
			fmt.Fprintf(sb, "*Singleton*: %s\n\n", yesNo(p.Singleton))
			fmt.Fprintf(sb, "*Required*: %s\n\n", yesNo(p.Required))
			if p.MinItems > 1 {
				fmt.Fprintf(sb, "*Min items*: %d\n\n", p.MinItems)
			}
			if p.MaxItems > 0 {
				fmt.Fprintf(sb, "*Max items*: %d\n\n", p.MaxItems)
			}
			if p.UIDRequired {
				sb.WriteString("*UID required*: yes\n\n")
			}
			if p.HasDefault {
				fmt.Fprintf(sb, "*Default*: ``%s``\n\n", inlineValue(p.Default))
			}
			sb.WriteString("*Schema*:\n\n")
			schemaTable(sb, p.Schema)
		}
	}

	if t.Results != nil {
		writeRST(sb, t.Results, "Results", ms.Results(), level)
	}
}

// schemaTable writes a descriptor as a simple two-column table; bare type
// tags are written inline.
func schemaTable(sb *strings.Builder, desc any) {
	m, ok := desc.(map[string]any)
	if !ok || len(m) == 0 {
		fmt.Fprintf(sb, "``%s``\n\n", inline(desc))
		return
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][2]string, len(keys))
	w1, w2 := 0, 0
	for i, k := range keys {
		rows[i] = [2]string{"**" + k + "**", inline(m[k])}
		w1 = max(w1, len(rows[i][0]))
		w2 = max(w2, len(rows[i][1]))
	}

	border := strings.Repeat("=", w1) + " " + strings.Repeat("=", w2) + "\n"
	sb.WriteString(border)
	for _, r := range rows {
		fmt.Fprintf(sb, "%-*s %s\n", w1, r[0], r[1])
	}
	sb.WriteString(border)
	sb.WriteString("\n")
}
