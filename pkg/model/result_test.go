package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
)

func resultDoc() *document.Document {
	station := document.New()
	station.Set("x", 0.25)
	station.Set("cl", 0.8)

	wing := document.New()
	wing.Set("lift", 1200.0)
	wing.Set("stations", []any{station, map[string]any{"x": 0.75, "cl": 0.6}})

	d := document.New()
	d.Set("wing", wing)
	d.Set("range", 6000.0)
	d.Set("tags", []any{"sizing", "cruise"})
	d.Set("meta", map[string]any{"solver": "breguet"})
	return d
}

func TestResult_Recursive(t *testing.T) {
	r := NewResult(resultDoc())
	assert.Equal(t, []string{"wing", "range", "tags", "meta"}, r.Names())

	rng, err := r.Get("range")
	require.NoError(t, err)
	assert.Equal(t, 6000.0, rng)

	wing, err := r.Get("wing")
	require.NoError(t, err)
	require.IsType(t, &Result{}, wing)

	lift, err := wing.(*Result).Get("lift")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, lift)

	seq, err := wing.(*Result).Iter("stations")
	require.NoError(t, err)
	var xs []any
	for s := range seq {
		require.IsType(t, &Result{}, s)
		x, err := s.(*Result).Get("x")
		require.NoError(t, err)
		xs = append(xs, x)
	}
	assert.Equal(t, []any{0.25, 0.75}, xs)

	meta, err := r.Get("meta")
	require.NoError(t, err)
	solver, err := meta.(*Result).Get("solver")
	require.NoError(t, err)
	assert.Equal(t, "breguet", solver)
}

func TestResult_Errors(t *testing.T) {
	r := NewResult(resultDoc())

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, domain.ErrUnknownFeature)

	wing, _ := r.Get("wing")
	_, err = wing.(*Result).Get("drag")
	var unknown *domain.UnknownPropertyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "wing", unknown.Feature)

	stations, _ := wing.(*Result).Get("stations")
	_, err = stations.([]any)[1].(*Result).Get("cm")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "wing.stations[1]", unknown.Feature)

	_, err = r.Iter("range")
	assert.ErrorIs(t, err, domain.ErrCardinality)
}

func TestResult_Len(t *testing.T) {
	r := NewResult(resultDoc())

	cases := map[string]int{"tags": 2, "wing": 2, "range": 1}
	for name, want := range cases {
		n, err := r.Len(name)
		require.NoError(t, err)
		assert.Equal(t, want, n, name)
	}
	_, err := r.Len("missing")
	assert.Error(t, err)
}

func TestResult_IsReadOnly(t *testing.T) {
	src := resultDoc()
	r := NewResult(src)
	src.Set("range", 1.0)

	rng, _ := r.Get("range")
	assert.Equal(t, 6000.0, rng)

	tags, _ := r.Get("tags")
	tags.([]any)[0] = "changed"
	again, _ := r.Get("tags")
	assert.Equal(t, []any{"sizing", "cruise"}, again)

	d := r.Document()
	d.Delete("range")
	assert.Equal(t, 4, len(r.Names()))
}

func TestResult_Nil(t *testing.T) {
	r := NewResult(nil)
	assert.Empty(t, r.Names())
}
