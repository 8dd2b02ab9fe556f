package dto

// ModelFile is the on-disk form of a ModelSpec. It uses "mapstructure" tags
// so YAML and JSON files decode through the same path; HCL files are
// converted into it.
type ModelFile struct {
	Doc      string        `json:"doc,omitempty" mapstructure:"doc"`
	Solver   string        `json:"solver,omitempty" mapstructure:"solver"`
	Features []FeatureFile `json:"features" mapstructure:"features"`
	Results  *ModelFile    `json:"results,omitempty" mapstructure:"results"`
}

// FeatureFile declares one feature entry. Required defaults to true.
type FeatureFile struct {
	Name        string         `json:"name" mapstructure:"name"`
	Doc         string         `json:"doc,omitempty" mapstructure:"doc"`
	Multiple    bool           `json:"multiple,omitempty" mapstructure:"multiple"`
	Required    *bool          `json:"required,omitempty" mapstructure:"required"`
	MinItems    int            `json:"min_items,omitempty" mapstructure:"min_items"`
	MaxItems    int            `json:"max_items,omitempty" mapstructure:"max_items"`
	UIDRequired bool           `json:"uid_required,omitempty" mapstructure:"uid_required"`
	Properties  []PropertyFile `json:"properties" mapstructure:"properties"`
}

// PropertyFile declares one property. Schema holds a schema descriptor; a nil
// Default means none was declared.
type PropertyFile struct {
	Name        string `json:"name" mapstructure:"name"`
	Schema      any    `json:"schema" mapstructure:"schema"`
	Doc         string `json:"doc,omitempty" mapstructure:"doc"`
	Multiple    bool   `json:"multiple,omitempty" mapstructure:"multiple"`
	Required    *bool  `json:"required,omitempty" mapstructure:"required"`
	MinItems    int    `json:"min_items,omitempty" mapstructure:"min_items"`
	MaxItems    int    `json:"max_items,omitempty" mapstructure:"max_items"`
	UIDRequired bool   `json:"uid_required,omitempty" mapstructure:"uid_required"`
	Default     any    `json:"default,omitempty" mapstructure:"default"`
}

// IsRequired resolves the tri-state Required flag.
func (f FeatureFile) IsRequired() bool { return f.Required == nil || *f.Required }

// IsRequired resolves the tri-state Required flag. A declared default makes
// the property optional.
func (p PropertyFile) IsRequired() bool {
	if p.Default != nil {
		return false
	}
	return p.Required == nil || *p.Required
}
