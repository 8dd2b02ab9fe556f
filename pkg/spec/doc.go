/*
Package spec provides the builders a developer uses to declare a model.

A ModelSpec lists named features; each feature is described by a FeatureSpec
listing named properties with their schema. Features and properties are
required and singleton unless configured with Optional, Default or Multiple.
Registration order is kept for documentation and serialization.

Example usage:

	wing := spec.NewFeatureSpec().
		Prop("span", schema.Float()).
		Prop("area", schema.PositiveFloat()).
		Prop("dihedral", schema.Float(), spec.Default(0.0))

	ms := spec.NewModelSpec().
		With("wing", wing, spec.Multiple())

	if err := ms.Err(); err != nil {
		// duplicate names, invalid defaults, ...
	}

Specs are frozen when compiled into a runtime model type; later mutations fail
with domain.ErrSpecFrozen.
*/
package spec
