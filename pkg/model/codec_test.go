package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
)

func populated(t *testing.T) (*Type, *Model) {
	t.Helper()
	typ := MustCompile(aircraftSpec())
	m := typ.New()

	for _, w := range []struct{ span, area float64 }{{20, 40}, {8.5, 12.25}} {
		wing, err := m.AddFeature("wing")
		require.NoError(t, err)
		require.NoError(t, wing.Set("span", w.span))
		require.NoError(t, wing.Set("area", w.area))
	}
	wings, _ := m.Features("wing")
	require.NoError(t, wings[0].AddMany("loads", 1.5, 2.5))

	fuselage, err := m.SetFeature("fuselage")
	require.NoError(t, err)
	require.NoError(t, fuselage.Set("length", 12.0))
	require.NoError(t, fuselage.Set("material", "cfrp"))
	return typ, m
}

func TestDump_Shape(t *testing.T) {
	_, m := populated(t)
	doc := Dump(m)

	assert.Equal(t, []string{"wing", "fuselage"}, doc.Keys())

	wings, _ := doc.Get("wing")
	require.Len(t, wings, 2)
	first := wings.([]any)[0].(*document.Document)
	assert.Equal(t, []string{"span", "area", "loads"}, first.Keys(), "unset dihedral is omitted")
	loads, _ := first.Get("loads")
	assert.Equal(t, []any{1.5, 2.5}, loads)

	fuselage, _ := doc.Get("fuselage")
	assert.Equal(t, []string{"length", "material"}, fuselage.(*document.Document).Keys())
}

func TestDump_Empty(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()
	assert.Equal(t, 0, Dump(m).Len())
}

func TestDump_IsACopy(t *testing.T) {
	_, m := populated(t)
	doc := Dump(m)
	wings, _ := doc.Get("wing")
	wings.([]any)[0].(*document.Document).Set("span", -1.0)

	w, _ := m.Features("wing")
	span, _ := w[0].Get("span")
	assert.Equal(t, 20.0, span)
}

func TestRoundTrip_InMemory(t *testing.T) {
	typ, m := populated(t)
	doc := Dump(m)

	back, err := Load(typ, doc)
	require.NoError(t, err)
	assert.True(t, document.Equal(doc, Dump(back)))
}

func TestRoundTrip_Bytes(t *testing.T) {
	for _, f := range []document.Format{document.FormatJSON, document.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			typ, m := populated(t)
			doc := Dump(m)

			data, err := document.Marshal(doc, f)
			require.NoError(t, err)
			decoded, err := document.Unmarshal(data, f)
			require.NoError(t, err)

			back, err := typ.Load(decoded)
			require.NoError(t, err)
			assert.Equal(t, doc.ToMap(), Dump(back).ToMap())
			assert.Equal(t, doc.Keys(), Dump(back).Keys())
		})
	}
}

func TestLoad_AcceptsPlainMaps(t *testing.T) {
	typ := MustCompile(aircraftSpec())
	doc := document.FromMap(map[string]any{
		"fuselage": map[string]any{"length": 3.0},
		"wing": []any{
			map[string]any{"span": 1.0, "area": 2.0},
		},
	})

	m, err := typ.Load(doc)
	require.NoError(t, err)
	n, _ := m.Len("wing")
	assert.Equal(t, 1, n)
	f, err := m.Feature("fuselage")
	require.NoError(t, err)
	length, _ := f.Get("length")
	assert.Equal(t, 3.0, length)
}

func TestLoad_Rejections(t *testing.T) {
	typ := MustCompile(aircraftSpec())

	cases := []struct {
		name   string
		doc    map[string]any
		target error
	}{
		{
			name:   "unknown feature",
			doc:    map[string]any{"tail": map[string]any{}},
			target: domain.ErrUnknownFeature,
		},
		{
			name:   "unknown property",
			doc:    map[string]any{"fuselage": map[string]any{"colour": "red"}},
			target: domain.ErrUnknownProperty,
		},
		{
			name:   "invalid value",
			doc:    map[string]any{"fuselage": map[string]any{"length": -3.0}},
			target: domain.ErrInvalidValue,
		},
		{
			name:   "singleton given a list",
			doc:    map[string]any{"fuselage": []any{}},
			target: domain.ErrInvalidDocument,
		},
		{
			name:   "multiple given a mapping",
			doc:    map[string]any{"wing": map[string]any{}},
			target: domain.ErrInvalidDocument,
		},
		{
			name:   "list item not a mapping",
			doc:    map[string]any{"wing": []any{1}},
			target: domain.ErrInvalidDocument,
		},
		{
			name:   "multiple property given a scalar",
			doc:    map[string]any{"wing": []any{map[string]any{"loads": 1.0}}},
			target: domain.ErrInvalidDocument,
		},
		{
			name:   "too many property values",
			doc:    map[string]any{"wing": []any{map[string]any{"loads": []any{1.0, 2.0, 3.0, 4.0}}}},
			target: domain.ErrMaxItems,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := typ.Load(document.FromMap(tc.doc))
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestLoad_Nil(t *testing.T) {
	m, err := MustCompile(aircraftSpec()).Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, Dump(m).Len())
}
