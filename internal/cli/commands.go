package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/mframework"
	"github.com/aretw0/mframework/internal/presentation/tui"
	"github.com/aretw0/mframework/pkg/docgen"
	"github.com/aretw0/mframework/pkg/document"
)

// RunDocs writes the spec documentation to w. Markdown sent to a terminal
// is rendered with glamour unless raw is set.
func RunDocs(w io.Writer, opts Options, format string, raw bool) error {
	eng, err := createEngine(opts, CreateLogger(opts.Debug))
	if err != nil {
		return err
	}

	out, err := eng.Docs(mframework.DocFormat(format))
	if err != nil {
		return err
	}

	if f, ok := w.(*os.File); ok && !raw && format != string(mframework.DocRST) && tui.IsTerminal(f) {
		render, err := tui.NewRenderer(tui.Width(f))
		if err != nil {
			return err
		}
		if out, err = render(out); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, out)
	return err
}

// RunValidate compiles the spec and, when docPath is set, checks the model
// document against it. Every failure is listed before the error is returned.
func RunValidate(w io.Writer, opts Options, docPath string) error {
	status := tui.NewStatus(w)

	eng, err := createEngine(opts, CreateLogger(opts.Debug))
	if err != nil {
		status.Fail("%s", opts.SpecPath)
		return err
	}
	status.OK("%s compiles (%d features)", opts.SpecPath, len(eng.Spec().Names()))

	if docPath == "" {
		printSystemMessage(w, "No document given, checked the spec only.")
		return nil
	}

	doc, err := readDocument(docPath)
	if err != nil {
		status.Fail("%s", docPath)
		return err
	}

	if err := eng.Validate(doc); err != nil {
		for _, cause := range causes(err) {
			status.Fail("%s: %v", docPath, cause)
		}
		return fmt.Errorf("validation failed: %s: %w", docPath, err)
	}
	status.OK("%s is complete", docPath)
	return nil
}

// RunGraph writes the Mermaid feature graph. With a model document, set and
// missing items are highlighted.
func RunGraph(w io.Writer, opts Options, docPath string) error {
	eng, err := createEngine(opts, CreateLogger(opts.Debug))
	if err != nil {
		return err
	}

	if docPath == "" {
		_, err = io.WriteString(w, eng.Graph())
		return err
	}

	doc, err := readDocument(docPath)
	if err != nil {
		return err
	}
	m, err := eng.Load(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, docgen.ModelGraph(m))
	return err
}

// RunSchema writes the OpenAPI component schemas as indented JSON.
func RunSchema(w io.Writer, opts Options) error {
	eng, err := createEngine(opts, CreateLogger(opts.Debug))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]any{
		"components": map[string]any{"schemas": eng.Schemas()},
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// PrintVersion writes the version line.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "mframework version %s\n", mframework.Version)
}

func readDocument(path string) (*document.Document, error) {
	f, err := document.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	doc, err := document.Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
