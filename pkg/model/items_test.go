package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// structureSpec declares at least two beams and one wing whose "ribs" needs
// three values. Beams and stations are keyed by uid.
func structureSpec() *spec.ModelSpec {
	beam := spec.NewFeatureSpec().
		Prop("length", schema.PositiveFloat()).
		Prop("stations", schema.Float(), spec.Multiple(), spec.Optional(), spec.UIDRequired())

	wing := spec.NewFeatureSpec().
		Prop("ribs", schema.Int(), spec.Multiple(), spec.MinItems(3), spec.MaxItems(3))

	return spec.NewModelSpec().
		With("beam", beam, spec.Multiple(), spec.MinItems(2), spec.UIDRequired()).
		With("wing", wing)
}

func addBeam(t *testing.T, m *Model, uid string, length float64) *Feature {
	t.Helper()
	beam, err := m.AddFeatureWithUID("beam", uid)
	require.NoError(t, err)
	require.NoError(t, beam.Set("length", length))
	return beam
}

func TestMinItems_Completeness(t *testing.T) {
	m := MustCompile(structureSpec()).New()
	addBeam(t, m, "root", 2.0)

	err := m.Check()
	var missingFeatures *domain.MissingRequiredFeatureError
	require.ErrorAs(t, err, &missingFeatures)
	assert.Equal(t, []string{"beam", "wing"}, missingFeatures.Features)
	assert.Equal(t, domain.ItemCount{Have: 1, Want: 2}, missingFeatures.Counts["beam"])
	_, counted := missingFeatures.Counts["wing"]
	assert.False(t, counted)

	addBeam(t, m, "tip", 1.0)
	wing, err := m.SetFeature("wing")
	require.NoError(t, err)
	require.NoError(t, wing.AddMany("ribs", 11, 22))

	err = m.Check()
	var missingProps *domain.MissingRequiredPropertyError
	require.ErrorAs(t, err, &missingProps)
	require.Len(t, missingProps.Missing, 1)
	assert.Equal(t, "wing[0].ribs (2 of 3)", missingProps.Missing[0].String())

	require.NoError(t, wing.Add("ribs", 33))
	assert.ErrorIs(t, wing.Add("ribs", 44), domain.ErrMaxItems)

	_, err = m.Run(context.Background())
	assert.NoError(t, err)
}

func TestFeatureUIDs(t *testing.T) {
	m := MustCompile(structureSpec()).New()

	_, err := m.AddFeature("beam")
	assert.ErrorIs(t, err, domain.ErrUID)

	root := addBeam(t, m, "root", 2.0)
	tip := addBeam(t, m, "tip", 1.0)
	assert.Equal(t, "root", root.UID())

	_, err = m.AddFeatureWithUID("beam", "root")
	var uidErr *domain.UIDError
	require.ErrorAs(t, err, &uidErr)
	assert.Equal(t, "duplicate uid", uidErr.Reason)

	_, err = m.AddFeatureWithUID("beam", "")
	assert.ErrorIs(t, err, domain.ErrUID)
	_, err = m.AddFeatureWithUID("wing", "w1")
	assert.ErrorIs(t, err, domain.ErrCardinality)

	got, err := m.GetByUID("beam", "tip")
	require.NoError(t, err)
	assert.Same(t, tip, got)

	_, err = m.GetByUID("beam", "mid")
	require.ErrorAs(t, err, &uidErr)
	assert.Equal(t, "not found", uidErr.Reason)

	seq, err := m.IterUIDs("beam")
	require.NoError(t, err)
	var uids []string
	for uid, f := range seq {
		uids = append(uids, uid)
		assert.Equal(t, uid, f.UID())
	}
	assert.Equal(t, []string{"root", "tip"}, uids)
}

func TestFeatureUIDs_NotDeclared(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()

	_, err := m.AddFeatureWithUID("wing", "left")
	assert.ErrorIs(t, err, domain.ErrUID)
	_, err = m.GetByUID("wing", "left")
	assert.ErrorIs(t, err, domain.ErrUID)
	_, err = m.IterUIDs("wing")
	assert.ErrorIs(t, err, domain.ErrUID)

	wing, err := m.AddFeature("wing")
	require.NoError(t, err)
	assert.NotEmpty(t, wing.UID())
	assert.ErrorIs(t, wing.AddWithUID("loads", "l1", 1.0), domain.ErrUID)
}

func TestPropertyUIDs(t *testing.T) {
	m := MustCompile(structureSpec()).New()
	beam := addBeam(t, m, "root", 2.0)

	assert.ErrorIs(t, beam.Add("stations", 0.5), domain.ErrUID)
	assert.ErrorIs(t, beam.AddMany("stations", 0.5, 0.7), domain.ErrUID)

	require.NoError(t, beam.AddWithUID("stations", "s1", 0.25))
	require.NoError(t, beam.AddWithUID("stations", "s2", 0.75))
	assert.ErrorIs(t, beam.AddWithUID("stations", "s1", 0.5), domain.ErrUID)
	assert.ErrorIs(t, beam.AddWithUID("stations", "s3", "far"), domain.ErrInvalidValue)
	assert.ErrorIs(t, beam.AddWithUID("length", "l1", 1.0), domain.ErrCardinality)

	v, err := beam.GetByUID("stations", "s2")
	require.NoError(t, err)
	assert.Equal(t, 0.75, v)
	_, err = beam.GetByUID("stations", "s3")
	assert.ErrorIs(t, err, domain.ErrUID)

	seq, err := beam.IterUIDs("stations")
	require.NoError(t, err)
	var pairs []any
	for uid, v := range seq {
		pairs = append(pairs, uid, v)
	}
	assert.Equal(t, []any{"s1", 0.25, "s2", 0.75}, pairs)

	all, err := beam.Get("stations")
	require.NoError(t, err)
	assert.Equal(t, []any{0.25, 0.75}, all)
}

func TestUIDs_RoundTrip(t *testing.T) {
	typ := MustCompile(structureSpec())
	m := typ.New()
	root := addBeam(t, m, "root", 2.0)
	require.NoError(t, root.AddWithUID("stations", "s1", 0.25))
	require.NoError(t, root.AddWithUID("stations", "s2", 0.75))
	addBeam(t, m, "tip", 1.0)

	doc := Dump(m)
	beams, ok := doc.Get("beam")
	require.True(t, ok)
	keyed := beams.(*document.Document)
	assert.Equal(t, []string{"root", "tip"}, keyed.Keys())
	first, _ := keyed.Get("root")
	stations, _ := first.(*document.Document).Get("stations")
	assert.Equal(t, []string{"s1", "s2"}, stations.(*document.Document).Keys())

	for _, f := range []document.Format{document.FormatJSON, document.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := document.Marshal(doc, f)
			require.NoError(t, err)
			decoded, err := document.Unmarshal(data, f)
			require.NoError(t, err)

			back, err := typ.Load(decoded)
			require.NoError(t, err)
			assert.True(t, document.Equal(doc, Dump(back)))

			beam, err := back.GetByUID("beam", "root")
			require.NoError(t, err)
			v, err := beam.GetByUID("stations", "s2")
			require.NoError(t, err)
			assert.Equal(t, 0.75, v)
		})
	}
}

func TestUIDs_LoadRejections(t *testing.T) {
	typ := MustCompile(structureSpec())

	_, err := typ.Load(document.FromMap(map[string]any{
		"beam": []any{map[string]any{"length": 1.0}},
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	_, err = typ.Load(document.FromMap(map[string]any{
		"beam": map[string]any{"root": map[string]any{"stations": []any{0.5}}},
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	_, err = typ.Load(document.FromMap(map[string]any{
		"beam": map[string]any{"root": map[string]any{"length": -1.0}},
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestDefaults_ReplaceableAfterRun(t *testing.T) {
	m := MustCompile(aircraftSpec()).New()
	wing, err := m.AddFeature("wing")
	require.NoError(t, err)
	require.NoError(t, wing.Set("span", 20.0))
	require.NoError(t, wing.Set("area", 40.0))

	_, err = m.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, wing.IsSet("dihedral"))
	assert.True(t, wing.IsDefault("dihedral"))

	require.NoError(t, wing.Set("dihedral", 5.0))
	assert.False(t, wing.IsDefault("dihedral"))
	d, _ := wing.Get("dihedral")
	assert.Equal(t, 5.0, d)
	assert.ErrorIs(t, wing.Set("dihedral", 6.0), domain.ErrAlreadySet)

	assert.ErrorIs(t, wing.Set("span", 21.0), domain.ErrAlreadySet)
}

func TestDefaults_ListReplacedByAdd(t *testing.T) {
	wing := spec.NewFeatureSpec().
		Prop("loads", schema.Float(), spec.Multiple(), spec.Default([]any{1.0, 2.0}), spec.MaxItems(2))
	m := MustCompile(spec.NewModelSpec().With("wing", wing)).New()
	f, err := m.SetFeature("wing")
	require.NoError(t, err)

	require.NoError(t, m.Finalize())
	assert.True(t, f.IsDefault("loads"))

	require.NoError(t, f.AddMany("loads", 3.0, 4.0))
	loads, _ := f.Get("loads")
	assert.Equal(t, []any{3.0, 4.0}, loads)
	assert.False(t, f.IsDefault("loads"))
	assert.ErrorIs(t, f.Add("loads", 5.0), domain.ErrMaxItems)
}
