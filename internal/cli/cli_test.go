package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/internal/testutils"
	"github.com/aretw0/mframework/pkg/domain"
)

var aircraft = Options{SpecPath: filepath.Join("..", "compiler", "testdata", "aircraft.yaml")}

var writeDoc = testutils.WriteFile

func TestRunDocs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunDocs(&buf, aircraft, "markdown", false))
	assert.Contains(t, buf.String(), "# aircraft")
	assert.Contains(t, buf.String(), "## Feature: fuselage")

	buf.Reset()
	require.NoError(t, RunDocs(&buf, aircraft, "rst", false))
	assert.Contains(t, buf.String(), ".. mermaid::")

	assert.Error(t, RunDocs(&buf, aircraft, "pdf", false))
}

func TestRunValidate_SpecOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunValidate(&buf, aircraft, ""))
	assert.Contains(t, buf.String(), "[OK]")
	assert.Contains(t, buf.String(), "(2 features)")
	assert.Contains(t, buf.String(), ">>> No document given")
}

func TestRunValidate_Document(t *testing.T) {
	complete := writeDoc(t, "a320.yaml", "wing:\n  - span: 34.1\n    area: 122.6\n")
	var buf bytes.Buffer
	require.NoError(t, RunValidate(&buf, aircraft, complete))
	assert.Contains(t, buf.String(), "a320.yaml is complete")

	incomplete := writeDoc(t, "draft.json", `{"wing": [{"span": 34.1}]}`)
	buf.Reset()
	err := RunValidate(&buf, aircraft, incomplete)
	assert.ErrorContains(t, err, "validation failed")
	assert.Contains(t, buf.String(), "[FAIL]")
	assert.Contains(t, buf.String(), "area")

	bad := writeDoc(t, "bad.yaml", "tail: {}\n")
	buf.Reset()
	assert.ErrorIs(t, RunValidate(&buf, aircraft, bad), domain.ErrUnknownFeature)
}

func TestRunValidate_BadSpec(t *testing.T) {
	var buf bytes.Buffer
	err := RunValidate(&buf, Options{SpecPath: "missing.yaml"}, "")
	assert.ErrorContains(t, err, "error initializing engine")
	assert.Contains(t, buf.String(), "[FAIL]")
}

func TestRunGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunGraph(&buf, aircraft, ""))
	assert.Contains(t, buf.String(), "graph TD")
	assert.NotContains(t, buf.String(), "classDef")

	doc := writeDoc(t, "a320.yaml", "fuselage: {material: cfrp}\n")
	buf.Reset()
	require.NoError(t, RunGraph(&buf, aircraft, doc))
	assert.Contains(t, buf.String(), "classDef missing")
	assert.Contains(t, buf.String(), "classDef set")
}

func TestRunSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunSchema(&buf, aircraft))

	var out map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	schemas := out["components"]["schemas"]
	assert.Contains(t, schemas, "Model")
	assert.Contains(t, schemas, "Results")
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	assert.Regexp(t, `^mframework version \d+\.\d+\.\d+\n$`, buf.String())
}

func TestCauses(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	assert.Equal(t, []error{a, b}, causes(errors.Join(a, b)))
	assert.Equal(t, []error{a}, causes(a))
}

func TestCreateDebugHooks(t *testing.T) {
	hooks := createDebugHooks(CreateLogger(false))
	assert.NotNil(t, hooks.OnFeatureCreated)
	assert.NotNil(t, hooks.OnValueRejected)
	assert.NotNil(t, hooks.OnRunFinish)
}
