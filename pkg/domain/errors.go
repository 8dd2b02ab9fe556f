package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Specification errors. These are developer mistakes and are never recoverable
// by the end user.
var (
	// ErrDuplicateProperty is returned when a property name is registered twice in a FeatureSpec.
	ErrDuplicateProperty = errors.New("duplicate property")
	// ErrDuplicateFeature is returned when a feature name is registered twice in a ModelSpec.
	ErrDuplicateFeature = errors.New("duplicate feature")
	// ErrSpecFrozen is returned when a spec is mutated after it has been compiled.
	ErrSpecFrozen = errors.New("spec is frozen")
	// ErrInvalidSpec is returned for malformed registrations (empty names, nil schemas, bad options).
	ErrInvalidSpec = errors.New("invalid spec")
)

// Runtime errors.
var (
	ErrUnknownFeature          = errors.New("unknown feature")
	ErrUnknownProperty         = errors.New("unknown property")
	ErrInvalidValue            = errors.New("invalid value")
	ErrMissingRequiredFeature  = errors.New("missing required feature")
	ErrMissingRequiredProperty = errors.New("missing required property")
	ErrAlreadySet              = errors.New("already set")
	ErrCardinality             = errors.New("wrong accessor for cardinality")
	ErrMaxItems                = errors.New("too many items")
	ErrNotSet                  = errors.New("not set")
	ErrInvalidDocument         = errors.New("invalid document")
	ErrUID                     = errors.New("uid error")
	ErrInvalidModel            = errors.New("invalid model")
)

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// UnknownFeatureError reports a feature name absent from the compiled spec.
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q", e.Name)
}

func (e *UnknownFeatureError) Is(target error) bool { return target == ErrUnknownFeature }

// UnknownPropertyError reports a property name absent from a feature's spec.
type UnknownPropertyError struct {
	Feature string
	Name    string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("feature %q: unknown property %q", e.Feature, e.Name)
}

func (e *UnknownPropertyError) Is(target error) bool { return target == ErrUnknownProperty }

// InvalidValueError reports a value rejected by the schema matcher.
// Err holds the matcher's reason and is exposed through Unwrap.
type InvalidValueError struct {
	Feature  string
	Property string
	Value    any
	Err      error
}

func (e *InvalidValueError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("property %q: invalid value: %v", e.Property, e.Err)
	}
	return fmt.Sprintf("%s.%s: invalid value: %v", e.Feature, e.Property, e.Err)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

// Reason returns the matcher's rejection message.
func (e *InvalidValueError) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ItemCount compares the instances present with the declared minimum.
type ItemCount struct {
	Have int
	Want int
}

func (c ItemCount) String() string {
	return fmt.Sprintf("%d of %d", c.Have, c.Want)
}

// MissingRequiredFeatureError names every required feature without enough
// instances. Counts is set for features declaring a minimum above one.
type MissingRequiredFeatureError struct {
	Features []string
	Counts   map[string]ItemCount
}

func (e *MissingRequiredFeatureError) Error() string {
	parts := make([]string, len(e.Features))
	for i, name := range e.Features {
		parts[i] = name
		if c, ok := e.Counts[name]; ok {
			parts[i] += " (" + c.String() + ")"
		}
	}
	return fmt.Sprintf("missing required features: %s", strings.Join(parts, ", "))
}

func (e *MissingRequiredFeatureError) Is(target error) bool {
	return target == ErrMissingRequiredFeature
}

// MissingProperty locates one required property without enough values.
// Index is the position of the feature instance, 0 for singleton features.
// Count is set when the property declares a minimum above one.
type MissingProperty struct {
	Feature  string
	Index    int
	Property string
	Count    *ItemCount
}

func (m MissingProperty) String() string {
	s := fmt.Sprintf("%s[%d].%s", m.Feature, m.Index, m.Property)
	if m.Count != nil {
		s += " (" + m.Count.String() + ")"
	}
	return s
}

// MissingRequiredPropertyError names every required property left unset,
// across all feature instances.
type MissingRequiredPropertyError struct {
	Missing []MissingProperty
}

func (e *MissingRequiredPropertyError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = m.String()
	}
	return fmt.Sprintf("missing required properties: %s", strings.Join(parts, ", "))
}

func (e *MissingRequiredPropertyError) Is(target error) bool {
	return target == ErrMissingRequiredProperty
}

// AlreadySetError is returned by a second Set/SetFeature on a singleton under
// the strict policy.
type AlreadySetError struct {
	Feature  string
	Property string // empty when the feature itself is already set
}

func (e *AlreadySetError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("feature %q is already set", e.Feature)
	}
	return fmt.Sprintf("%s.%s is already set", e.Feature, e.Property)
}

func (e *AlreadySetError) Is(target error) bool { return target == ErrAlreadySet }

// CardinalityError is returned when an accessor does not fit the declared
// cardinality, e.g. Add on a singleton.
type CardinalityError struct {
	Name string
	Op   string
	Hint string
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("%s(%q) not allowed: try %s", e.Op, e.Name, e.Hint)
}

func (e *CardinalityError) Is(target error) bool { return target == ErrCardinality }

// MaxItemsError is returned when adding past a declared item bound.
type MaxItemsError struct {
	Name string
	Max  int
}

func (e *MaxItemsError) Error() string {
	return fmt.Sprintf("%q accepts at most %d items", e.Name, e.Max)
}

func (e *MaxItemsError) Is(target error) bool { return target == ErrMaxItems }

// NotSetError is returned by Get on a singleton that has no value and no default.
type NotSetError struct {
	Feature  string
	Property string // empty for a feature
}

func (e *NotSetError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("feature %q is not set", e.Feature)
	}
	return fmt.Sprintf("%s.%s is not set", e.Feature, e.Property)
}

func (e *NotSetError) Is(target error) bool { return target == ErrNotSet }

// DocumentError reports a structurally invalid document.
type DocumentError struct {
	Path   string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %s", e.Path, e.Reason)
}

func (e *DocumentError) Is(target error) bool { return target == ErrInvalidDocument }

// UIDError reports a misuse of user-supplied item identifiers: a missing or
// duplicate uid, a uid on an item that does not declare them, or a lookup
// of an unknown uid.
type UIDError struct {
	Feature  string
	Property string // empty for feature instances
	UID      string
	Reason   string
}

func (e *UIDError) Error() string {
	name := e.Feature
	if e.Property != "" {
		name += "." + e.Property
	}
	if e.UID == "" {
		return fmt.Sprintf("%s: %s", name, e.Reason)
	}
	return fmt.Sprintf("%s: uid %q: %s", name, e.UID, e.Reason)
}

func (e *UIDError) Is(target error) bool { return target == ErrUID }
