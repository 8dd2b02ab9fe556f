package schema

import (
	"encoding/json"
	"fmt"
)

// Describe renders s back into descriptor form, the inverse of Parse.
// The result is a string for bare type tags and a map otherwise; custom
// checks render as {"custom": name} and cannot be parsed back.
func Describe(s Schema) any {
	switch s := s.(type) {
	case *TypeCheck:
		return string(s.Base)
	case *Items:
		if elem, ok := Describe(s.Elem).(string); ok {
			return "[" + elem + "]"
		}
		return map[string]any{"type": string(TypeList), "items": Describe(s.Elem)}
	case *Object:
		return describeObject(s)
	case *AllOf:
		out := map[string]any{}
		for _, member := range s.Schemas {
			mergeDescription(out, member)
		}
		return out
	case nil:
		return nil
	default:
		out := map[string]any{}
		mergeDescription(out, s)
		return out
	}
}

func describeObject(o *Object) map[string]any {
	out := make(map[string]any, len(o.Fields)+2)
	var required []any
	for _, f := range o.Fields {
		out[f.Name] = Describe(f.Schema)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	if len(required) > 0 {
		out[keyRequiredKeys] = required
	}
	if o.Strict {
		out[keyStrict] = true
	}
	return out
}

func mergeDescription(out map[string]any, s Schema) {
	switch s := s.(type) {
	case *TypeCheck:
		out["type"] = string(s.Base)
	case *Comparison:
		out[string(s.Op)] = s.Bound
	case *Enum:
		out["one_of"] = append([]any(nil), s.Values...)
	case *Length:
		if s.Min > 0 {
			out["min_len"] = s.Min
		}
		if s.Max >= 0 {
			out["max_len"] = s.Max
		}
	case *Pattern:
		out["pattern"] = s.Expr
	case *Items:
		out["type"] = string(TypeList)
		out["items"] = Describe(s.Elem)
	case *Object:
		out["type"] = string(TypeMap)
		out["fields"] = describeObject(s)
	case *Rule:
		out[s.Engine] = s.Source
	case *CustomCheck:
		out["custom"] = s.name
	case *AllOf:
		for _, member := range s.Schemas {
			mergeDescription(out, member)
		}
	}
}

// Descriptor wraps a Schema so it can be embedded in JSON documents.
type Descriptor struct {
	Schema
}

// MarshalJSON serializes the schema in descriptor form.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if d.Schema == nil {
		return []byte("null"), nil
	}
	return json.Marshal(Describe(d.Schema))
}

// UnmarshalJSON parses a descriptor.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	if d == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	if string(data) == "null" {
		d.Schema = nil
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s, err := Parse(raw)
	if err != nil {
		return err
	}
	d.Schema = s
	return nil
}
