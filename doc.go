/*
Package mframework turns a declarative model specification into a runtime model type.

A specification lists the features of a model (a wing, a fuselage) and the
properties of each feature (span, area), together with a schema describing
the values every property accepts. Compiling a specification yields a model
type. Users create instances of it, populate them through validating
accessors, and run them: the run checks that every required item is present,
applies declared defaults and hands the model to a solver, which returns a
read-only Result.

# Concept

The framework separates three concerns:

  - Specification (pkg/spec, pkg/schema): what a model may contain.
  - Runtime (pkg/model): the data a user entered, validated at every mutation.
  - Documents (pkg/document, pkg/ports): ordered nested mappings used to save,
    restore and exchange models as JSON or YAML.

# Usage

	cruise := spec.NewFeatureSpec().
		Prop("velocity", schema.PositiveFloat()).
		Prop("sfc", schema.PositiveFloat(), spec.Default(0.5))

	eng, err := mframework.New(spec.NewModelSpec().With("cruise", cruise),
		mframework.WithSolver(solve),
	)
	if err != nil {
		log.Fatal(err)
	}

	m := eng.NewModel()
	c, _ := m.SetFeature("cruise")
	_ = c.Set("velocity", 200.0)

	res, err := eng.Run(ctx, m)

Specifications can also be loaded from YAML, JSON or HCL files with Open.
The cmd/mframework binary renders their documentation and validates model
documents against them.
*/
package mframework
