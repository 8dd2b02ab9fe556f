/*
Package model compiles a spec.ModelSpec into a runtime Type and provides the
instances an end user populates.

A Model holds features; a Feature holds property values. Both expose the same
accessors, driven by the compiled spec table instead of generated code:

	typ, err := model.Compile(ms, model.WithSolver(solve))
	m := typ.New()

	wing, _ := m.AddFeature("wing")
	_ = wing.Set("span", 20.0)
	err = wing.Set("area", -5.0) // *domain.InvalidValueError

	res, err := m.Run(ctx) // completeness check, defaults, solver

Every Set and Add is validated through the configured schema.Matcher. Run
collects every missing required feature and property before failing, fills
unset optional properties from their defaults and wraps the solver output in
a read-only Result.

Dump and Load convert a model to and from an ordered document.Document; Load
validates every value again.

Models are not safe for concurrent mutation. Distinct instances share no
state and may be used from different goroutines.
*/
package model
