package docgen

import (
	"fmt"
	"strings"

	"github.com/aretw0/mframework/pkg/spec"
)

// Markdown renders user documentation for ms under the given title. The
// results spec, when declared, follows as a second top-level section.
func Markdown(ms *spec.ModelSpec, title string) string {
	var sb strings.Builder
	writeMarkdown(&sb, BuildTree(ms), title, ms)
	return sb.String()
}

func writeMarkdown(sb *strings.Builder, t *Tree, title string, ms *spec.ModelSpec) {
	fmt.Fprintf(sb, "# %s\n\n", title)
	if t == nil {
		sb.WriteString("*No specification.*\n")
		return
	}
	if t.Doc != "" {
		fmt.Fprintf(sb, "%s\n\n", t.Doc)
	}
	fmt.Fprintf(sb, "```mermaid\n%s```\n\n", FeatureGraph(ms))

	for _, f := range t.Features {
		fmt.Fprintf(sb, "## Feature: %s\n\n", f.Name)
		if f.Doc != "" {
			fmt.Fprintf(sb, "%s\n\n", f.Doc)
		}
		fmt.Fprintf(sb, "- **Singleton**: %s\n", yesNo(f.Singleton))
		fmt.Fprintf(sb, "- **Required**: %s\n", yesNo(f.Required))
		if f.MinItems > 1 {
			fmt.Fprintf(sb, "- **Min items**: %d\n", f.MinItems)
		}
		if f.MaxItems > 0 {
			fmt.Fprintf(sb, "- **Max items**: %d\n", f.MaxItems)
		}
		if f.UIDRequired {
			sb.WriteString("- **UID required**: yes\n")
		}
		sb.WriteString("\n")

		for _, p := range f.Properties {
			fmt.Fprintf(sb, "### Property: %s\n\n", p.Name)
			if p.Doc != "" {
				fmt.Fprintf(sb, "%s\n\n", p.Doc)
			}
			fmt.Fprintf(sb, "- **Singleton**: %s\n", yesNo(p.Singleton))
			fmt.Fprintf(sb, "- **Required**: %s\n", yesNo(p.Required))
			if p.MinItems > 1 {
				fmt.Fprintf(sb, "- **Min items**: %d\n", p.MinItems)
			}
			if p.MaxItems > 0 {
				fmt.Fprintf(sb, "- **Max items**: %d\n", p.MaxItems)
			}
			if p.UIDRequired {
				sb.WriteString("- **UID required**: yes\n")
			}
			fmt.Fprintf(sb, "- **Schema**: `%s`\n", inline(p.Schema))
			if p.HasDefault {
				fmt.Fprintf(sb, "- **Default**: `%s`\n", inlineValue(p.Default))
			}
			sb.WriteString("\n")
		}
	}

	if t.Results != nil {
		writeMarkdown(sb, t.Results, "Results", ms.Results())
	}
}
