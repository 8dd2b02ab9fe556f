package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// aircraftSpec declares a required multiple "wing" and an optional singleton
// "fuselage".
func aircraftSpec() *spec.ModelSpec {
	wing := spec.NewFeatureSpec().
		Prop("span", schema.Float()).
		Prop("area", schema.PositiveFloat()).
		Prop("dihedral", schema.Float(), spec.Default(0.0)).
		Prop("loads", schema.Float(), spec.Multiple(), spec.Optional(), spec.MaxItems(3))

	fuselage := spec.NewFeatureSpec().
		Prop("length", schema.PositiveFloat()).
		Prop("material", schema.OneOf("alu", "cfrp"), spec.Default("alu"))

	return spec.NewModelSpec().
		With("wing", wing, spec.Multiple()).
		With("fuselage", fuselage, spec.Optional())
}

func TestWingScenario(t *testing.T) {
	typ, err := Compile(aircraftSpec())
	require.NoError(t, err)

	m := typ.New()
	wing, err := m.AddFeature("wing")
	require.NoError(t, err)
	require.NoError(t, wing.Set("span", 20))
	require.NoError(t, wing.Set("area", 40))

	_, err = m.Run(context.Background())
	require.NoError(t, err)

	bad, err := typ.New().AddFeature("wing")
	require.NoError(t, err)
	err = bad.Set("area", -5)
	var invalid *domain.InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "wing", invalid.Feature)
	assert.Equal(t, "area", invalid.Property)
	assert.Equal(t, -5, invalid.Value)
	assert.Contains(t, invalid.Reason(), "must be > 0")

	_, err = typ.New().Run(context.Background())
	var missing *domain.MissingRequiredFeatureError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"wing"}, missing.Features)
}

func TestValidationRejectsInvalidType(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()
	wing, err := m.AddFeature("wing")
	require.NoError(t, err)

	assert.ErrorIs(t, wing.Set("area", -1.0), domain.ErrInvalidValue)
	assert.ErrorIs(t, wing.Set("area", "large"), domain.ErrInvalidValue)
	assert.NoError(t, wing.Set("area", 1.5))

	v, err := wing.Get("area")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
}

func TestSingletonEnforcement(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		m := MustCompile(aircraftSpec()).New()

		_, err := m.AddFeature("fuselage")
		assert.ErrorIs(t, err, domain.ErrCardinality)
		assert.Contains(t, err.Error(), "SetFeature")

		first, err := m.SetFeature("fuselage")
		require.NoError(t, err)
		require.NoError(t, first.Set("length", 12.0))

		_, err = m.SetFeature("fuselage")
		var already *domain.AlreadySetError
		require.ErrorAs(t, err, &already)
		assert.Equal(t, "fuselage", already.Feature)

		assert.ErrorIs(t, first.Set("length", 13.0), domain.ErrAlreadySet)

		got, err := m.Feature("fuselage")
		require.NoError(t, err)
		assert.Same(t, first, got)
		length, _ := got.Get("length")
		assert.Equal(t, 12.0, length)
	})

	t.Run("overwrite", func(t *testing.T) {
		m := MustCompile(aircraftSpec(), WithOverwrite()).New()

		first, err := m.SetFeature("fuselage")
		require.NoError(t, err)
		require.NoError(t, first.Set("length", 12.0))
		require.NoError(t, first.Set("length", 13.0))
		length, _ := first.Get("length")
		assert.Equal(t, 13.0, length)

		second, err := m.SetFeature("fuselage")
		require.NoError(t, err)
		assert.NotSame(t, first, second)

		got, err := m.Feature("fuselage")
		require.NoError(t, err)
		assert.Same(t, second, got)
		assert.False(t, got.IsSet("length"))
	})

	t.Run("wrong accessors", func(t *testing.T) {
		m := MustCompile(aircraftSpec()).New()
		_, err := m.SetFeature("wing")
		assert.ErrorIs(t, err, domain.ErrCardinality)
		_, err = m.Iter("fuselage")
		assert.ErrorIs(t, err, domain.ErrCardinality)
		_, err = m.Feature("wing")
		assert.ErrorIs(t, err, domain.ErrCardinality)

		wing, _ := m.AddFeature("wing")
		assert.ErrorIs(t, wing.Add("span", 1.0), domain.ErrCardinality)
		assert.ErrorIs(t, wing.Set("loads", 1.0), domain.ErrCardinality)
		_, err = wing.Iter("span")
		assert.ErrorIs(t, err, domain.ErrCardinality)
	})
}

func TestRequiredAggregation(t *testing.T) {
	ms := spec.NewModelSpec().
		With("wing", spec.NewFeatureSpec().Prop("span", schema.Float())).
		With("engine", spec.NewFeatureSpec().Prop("thrust", schema.Float()))
	m := MustCompile(ms).New()

	wing, err := m.SetFeature("wing")
	require.NoError(t, err)
	require.NoError(t, wing.Set("span", 10.0))

	_, err = m.Run(context.Background())
	var missing *domain.MissingRequiredFeatureError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"engine"}, missing.Features)
	assert.NotErrorIs(t, err, domain.ErrMissingRequiredProperty)
}

func TestRequiredPropertiesAggregated(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()
	w0, _ := m.AddFeature("wing")
	require.NoError(t, w0.Set("span", 10.0))
	_, _ = m.AddFeature("wing")
	_, _ = m.SetFeature("fuselage")

	err := m.Check()
	var missing *domain.MissingRequiredPropertyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []domain.MissingProperty{
		{Feature: "wing", Index: 0, Property: "area"},
		{Feature: "wing", Index: 1, Property: "span"},
		{Feature: "wing", Index: 1, Property: "area"},
		{Feature: "fuselage", Index: 0, Property: "length"},
	}, missing.Missing)
}

func TestMissingFeaturesAndPropertiesJoined(t *testing.T) {
	ms := spec.NewModelSpec().
		With("wing", spec.NewFeatureSpec().Prop("span", schema.Float())).
		With("engine", spec.NewFeatureSpec().Prop("thrust", schema.Float()))
	m := MustCompile(ms).New()
	_, _ = m.SetFeature("wing")

	err := m.Check()
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFeature)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredProperty)
}

func TestDefaultApplication(t *testing.T) {
	var seen any
	solve := func(ctx context.Context, m *Model) (any, error) {
		wings, err := m.Features("wing")
		if err != nil {
			return nil, err
		}
		seen, err = wings[0].Get("dihedral")
		return nil, err
	}
	m := MustCompile(aircraftSpec(), WithSolver(solve)).New()
	wing, _ := m.AddFeature("wing")
	require.NoError(t, wing.Set("span", 20.0))
	require.NoError(t, wing.Set("area", 40.0))
	assert.False(t, wing.IsSet("dihedral"))

	_, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, seen)
	assert.True(t, wing.IsSet("dihedral"))
	assert.False(t, wing.IsSet("loads"), "optional without default stays unset")
}

func TestDefaultsAreCopiedPerInstance(t *testing.T) {
	fs := spec.NewFeatureSpec().
		Prop("tags", schema.Map(), spec.Default(map[string]any{"k": "v"}))
	typ := MustCompile(spec.NewModelSpec().With("meta", fs))

	a, b := typ.New(), typ.New()
	fa, _ := a.SetFeature("meta")
	fb, _ := b.SetFeature("meta")
	require.NoError(t, a.Finalize())
	require.NoError(t, b.Finalize())

	va, _ := fa.Get("tags")
	va.(map[string]any)["k"] = "mutated"
	vb, _ := fb.Get("tags")
	assert.Equal(t, "v", vb.(map[string]any)["k"])
	again, _ := fa.Get("tags")
	assert.Equal(t, "v", again.(map[string]any)["k"])
}

func TestStoredValuesDoNotAlias(t *testing.T) {
	fs := spec.NewFeatureSpec().Prop("points", schema.Slice(schema.Float()))
	m := MustCompile(spec.NewModelSpec().With("curve", fs)).New()
	f, _ := m.SetFeature("curve")

	input := []float64{1, 2, 3}
	require.NoError(t, f.Set("points", input))
	input[0] = 99

	v, _ := f.Get("points")
	assert.Equal(t, []float64{1, 2, 3}, v)
}

func TestUnknownNameRejection(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()

	_, err := m.Get("nonexistent_feature")
	assert.ErrorIs(t, err, domain.ErrUnknownFeature)
	_, err = m.AddFeature("nonexistent_feature")
	assert.ErrorIs(t, err, domain.ErrUnknownFeature)

	wing, _ := m.AddFeature("wing")
	err = wing.Set("nonexistent_prop", 1)
	var unknown *domain.UnknownPropertyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "wing", unknown.Feature)
	assert.Equal(t, "nonexistent_prop", unknown.Name)
}

func TestGetAndIter(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()

	_, err := m.Get("fuselage")
	assert.ErrorIs(t, err, domain.ErrNotSet)

	v, err := m.Get("wing")
	require.NoError(t, err)
	assert.Empty(t, v)

	w0, _ := m.AddFeature("wing")
	w1, _ := m.AddFeature("wing")

	seq, err := m.Iter("wing")
	require.NoError(t, err)
	_, _ = m.AddFeature("wing")

	var got []any
	for f := range seq {
		got = append(got, f)
	}
	assert.Equal(t, []any{w0, w1}, got, "snapshot taken at Iter")

	var again []any
	for f := range seq {
		again = append(again, f)
	}
	assert.Equal(t, got, again, "sequence is restartable")

	n, err := m.Len("wing")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, w1.Index())
	assert.NotEqual(t, w0.UID(), w1.UID())
}

func TestFeatureProperties(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()
	wing, _ := m.AddFeature("wing")

	_, err := wing.Get("span")
	assert.ErrorIs(t, err, domain.ErrNotSet)

	d, err := wing.Get("dihedral")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	loads, err := wing.Get("loads")
	require.NoError(t, err)
	assert.Equal(t, []any{}, loads)

	require.NoError(t, wing.AddMany("loads", 1.0, 2.0))
	assert.ErrorIs(t, wing.AddMany("loads", 3.0, 4.0), domain.ErrMaxItems)
	assert.ErrorIs(t, wing.AddMany("loads", 3.0, -1.0, "x"), domain.ErrInvalidValue)
	require.NoError(t, wing.Add("loads", 3.0))

	seq, err := wing.Iter("loads")
	require.NoError(t, err)
	var values []any
	for v := range seq {
		values = append(values, v)
	}
	assert.Equal(t, []any{1.0, 2.0, 3.0}, values)

	n, _ := wing.Len("loads")
	assert.Equal(t, 3, n)
	n, _ = wing.Len("span")
	assert.Equal(t, 0, n)
	n, _ = wing.Len("dihedral")
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{"span", "area", "dihedral", "loads"}, wing.Names())
	assert.Equal(t, "wing", wing.Name())
	assert.False(t, wing.Entry().Singleton)
}

func TestFeatureMaxItems(t *testing.T) {
	fs := spec.NewFeatureSpec().Prop("x", schema.Float())
	m := MustCompile(spec.NewModelSpec().With("sensor", fs, spec.Multiple(), spec.MaxItems(1))).New()

	_, err := m.AddFeature("sensor")
	require.NoError(t, err)
	_, err = m.AddFeature("sensor")
	assert.ErrorIs(t, err, domain.ErrMaxItems)
}

func TestCompile(t *testing.T) {
	_, err := Compile(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)

	broken := spec.NewModelSpec().With("a", spec.NewFeatureSpec()).With("a", spec.NewFeatureSpec())
	_, err = Compile(broken)
	assert.ErrorIs(t, err, domain.ErrDuplicateFeature)

	ms := aircraftSpec()
	t1, err := Compile(ms)
	require.NoError(t, err)
	t2, err := Compile(ms)
	require.NoError(t, err)
	assert.True(t, ms.Frozen())
	assert.ErrorIs(t, ms.AddFeatureSpec("tail", spec.NewFeatureSpec()), domain.ErrSpecFrozen)

	assert.Equal(t, t1.Names(), t2.Names())
	a, b := t1.New(), t2.New()
	_, _ = a.AddFeature("wing")
	n, _ := b.Len("wing")
	assert.Equal(t, 0, n)
	assert.Same(t, ms, t1.Spec())
}

func TestCustomMatcher(t *testing.T) {
	calls := 0
	matcher := schema.MatcherFunc(func(s schema.Schema, v any) error {
		calls++
		if v == "forbidden" {
			return errors.New("value is forbidden")
		}
		return schema.Validate(s, v)
	})
	fs := spec.NewFeatureSpec().Prop("label", schema.String())
	m := MustCompile(spec.NewModelSpec().With("tag", fs), WithMatcher(matcher)).New()
	f, _ := m.SetFeature("tag")

	err := f.Set("label", "forbidden")
	var invalid *domain.InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "value is forbidden", invalid.Reason())
	assert.NoError(t, f.Set("label", "ok"))
	assert.Equal(t, 2, calls)
}
