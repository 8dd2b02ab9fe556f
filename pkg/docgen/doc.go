// Package docgen generates user documentation from a ModelSpec: a structured
// Tree, Markdown and reStructuredText pages, Mermaid feature graphs and an
// OpenAPI 3 schema of the dumped document.
package docgen
