/*
Package domain contains the error taxonomy and lifecycle events shared by the
spec builders, the runtime model and its adapters.

It is kept free of I/O and of any dependency on the other packages so that
adapters can match errors without importing the runtime.

# Error kinds

  - Specification: ErrDuplicateProperty, ErrDuplicateFeature, ErrSpecFrozen, ErrInvalidSpec.
  - Lookup: UnknownFeatureError, UnknownPropertyError.
  - Validation: InvalidValueError, carrying the matcher's reason.
  - Completeness: MissingRequiredFeatureError, MissingRequiredPropertyError (aggregated).
  - Cardinality: AlreadySetError, CardinalityError, MaxItemsError, NotSetError.
  - Identity: UIDError for user-supplied item identifiers.
  - Ownership: ErrInvalidModel for a model handed to an engine that did not create it.

Every typed error answers errors.Is for its sentinel.
*/
package domain
