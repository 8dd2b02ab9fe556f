package spec

import (
	"errors"
	"testing"

	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/schema"
)

func TestFeatureSpec_AddPropSpec(t *testing.T) {
	fs := NewFeatureSpec()

	if err := fs.AddPropSpec("span", schema.Float()); err != nil {
		t.Fatalf("AddPropSpec(span) failed: %v", err)
	}
	if err := fs.AddPropSpec("area", schema.PositiveFloat(), Doc("Reference area")); err != nil {
		t.Fatalf("AddPropSpec(area) failed: %v", err)
	}
	if err := fs.AddPropSpec("loads", schema.Float(), Multiple(), MaxItems(3), Optional()); err != nil {
		t.Fatalf("AddPropSpec(loads) failed: %v", err)
	}

	names := fs.Names()
	if len(names) != 3 || names[0] != "span" || names[1] != "area" || names[2] != "loads" {
		t.Fatalf("Names() = %v, want registration order", names)
	}

	area, ok := fs.Property("area")
	if !ok {
		t.Fatal("Property(area) not found")
	}
	if !area.Required || !area.Singleton || area.Doc != "Reference area" {
		t.Errorf("area spec = %+v", area)
	}

	loads, _ := fs.Property("loads")
	if loads.Required || loads.Singleton || loads.MaxItems != 3 {
		t.Errorf("loads spec = %+v", loads)
	}
}

func TestFeatureSpec_Duplicate(t *testing.T) {
	fs := NewFeatureSpec()
	_ = fs.AddPropSpec("span", schema.Float())

	err := fs.AddPropSpec("span", schema.Int())
	if !errors.Is(err, domain.ErrDuplicateProperty) {
		t.Fatalf("expected ErrDuplicateProperty, got %v", err)
	}
	if fs.Len() != 1 {
		t.Errorf("Len() = %d, want 1", fs.Len())
	}
}

func TestFeatureSpec_InvalidRegistrations(t *testing.T) {
	fs := NewFeatureSpec()

	cases := map[string]error{
		"empty name":        fs.AddPropSpec("", schema.Float()),
		"nil schema":        fs.AddPropSpec("x", nil),
		"max items single":  fs.AddPropSpec("y", schema.Float(), MaxItems(2)),
		"zero max items":    fs.AddPropSpec("z", schema.Float(), Multiple(), MaxItems(0)),
		"nil default":       fs.AddPropSpec("w", schema.Float(), Default(nil)),
		"scalar multi dflt": fs.AddPropSpec("v", schema.Float(), Multiple(), Default(1.0)),
	}
	for name, err := range cases {
		if !errors.Is(err, domain.ErrInvalidSpec) {
			t.Errorf("%s: expected ErrInvalidSpec, got %v", name, err)
		}
	}
}

func TestFeatureSpec_DefaultIsValidatedAndCopied(t *testing.T) {
	fs := NewFeatureSpec()

	err := fs.AddPropSpec("area", schema.PositiveFloat(), Default(-1.0))
	var invalid *domain.InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidValueError, got %v", err)
	}
	if invalid.Property != "area" {
		t.Errorf("Property = %q, want area", invalid.Property)
	}

	tags := []any{"a", "b"}
	if err := fs.AddPropSpec("tags", schema.String(), Multiple(), Default(tags)); err != nil {
		t.Fatalf("AddPropSpec(tags) failed: %v", err)
	}
	tags[0] = "mutated"

	p, _ := fs.Property("tags")
	if p.Required {
		t.Error("Default must imply optional")
	}
	def, ok := p.Default()
	if !ok {
		t.Fatal("Default() not found")
	}
	got := def.([]any)
	if got[0] != "a" {
		t.Errorf("default aliased caller slice: %v", got)
	}
	got[1] = "changed"
	again, _ := p.Default()
	if again.([]any)[1] != "b" {
		t.Errorf("Default() returned shared storage: %v", again)
	}

	if err := fs.AddPropSpec("few", schema.Int(), Multiple(), MaxItems(1), Default([]int{1, 2})); !errors.Is(err, domain.ErrMaxItems) {
		t.Errorf("expected ErrMaxItems, got %v", err)
	}
}

func TestFeatureSpec_FluentErrors(t *testing.T) {
	fs := NewFeatureSpec().
		Prop("span", schema.Float()).
		Prop("span", schema.Float()).
		Prop("area", nil)

	err := fs.Err()
	if !errors.Is(err, domain.ErrDuplicateProperty) || !errors.Is(err, domain.ErrInvalidSpec) {
		t.Fatalf("Err() = %v", err)
	}
	if fs.Len() != 1 {
		t.Errorf("Len() = %d, want 1", fs.Len())
	}
}

func TestFeatureSpec_Frozen(t *testing.T) {
	fs := NewFeatureSpec().Prop("span", schema.Float())
	fs.Freeze()

	if err := fs.AddPropSpec("area", schema.Float()); !errors.Is(err, domain.ErrSpecFrozen) {
		t.Fatalf("expected ErrSpecFrozen, got %v", err)
	}
	if !fs.Frozen() {
		t.Error("Frozen() = false")
	}
}
