package docgen

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// OpenAPI returns the OpenAPI 3 schema of the document that model.Dump
// produces for a complete model of ms.
func OpenAPI(ms *spec.ModelSpec) *openapi3.Schema {
	root := openapi3.NewObjectSchema()
	root.Description = ms.Doc()
	for _, entry := range ms.Features() {
		fs := featureSchema(entry)
		if !entry.Singleton {
			fs = collection(fs, entry.UIDRequired, entry.Want(), entry.MaxItems)
		}
		fs.Description = entry.Doc
		root.WithProperty(entry.Name, fs)
		if entry.Required {
			root.Required = append(root.Required, entry.Name)
		}
	}
	return root
}

// Components returns named schemas for ms and, when declared, its results.
func Components(ms *spec.ModelSpec) openapi3.Schemas {
	out := openapi3.Schemas{
		"Model": openapi3.NewSchemaRef("", OpenAPI(ms)),
	}
	if rs := ms.Results(); rs != nil {
		out["Results"] = openapi3.NewSchemaRef("", OpenAPI(rs))
	}
	return out
}

func featureSchema(entry spec.FeatureEntry) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	for _, p := range entry.Spec.Properties() {
		ps := SchemaFor(p.Schema)
		if !p.Singleton {
			ps = collection(ps, p.UIDRequired, p.Want(), p.MaxItems)
		}
		ps.Description = p.Doc
		if def, ok := p.Default(); ok {
			ps.Default = def
		}
		obj.WithProperty(p.Name, ps)
		if p.Required {
			obj.Required = append(obj.Required, p.Name)
		}
	}
	return obj
}

// collection wraps the schema of one entry of a Multiple item: an array, or
// an object keyed by uid when the item declares uids.
func collection(elem *openapi3.Schema, keyed bool, minItems, maxItems int) *openapi3.Schema {
	if keyed {
		obj := openapi3.NewObjectSchema().WithAdditionalProperties(elem)
		if minItems > 0 {
			obj.WithMinProperties(int64(minItems))
		}
		if maxItems > 0 {
			obj.WithMaxProperties(int64(maxItems))
		}
		return obj
	}
	list := openapi3.NewArraySchema().WithItems(elem)
	if minItems > 0 {
		list.WithMinItems(int64(minItems))
	}
	if maxItems > 0 {
		list.WithMaxItems(int64(maxItems))
	}
	return list
}

// SchemaFor converts a schema descriptor into an OpenAPI schema. Rules and
// custom checks have no OpenAPI equivalent and are kept as x- extensions.
func SchemaFor(s schema.Schema) *openapi3.Schema {
	out := openapi3.NewSchema()
	apply(out, s)
	return out
}

func apply(out *openapi3.Schema, s schema.Schema) {
	switch s := s.(type) {
	case *schema.TypeCheck:
		base := baseSchema(s.Base)
		out.Type = base.Type
		out.Format = base.Format
		if base.Items != nil {
			out.Items = base.Items
		}
		if base.AdditionalProperties.Has != nil || base.AdditionalProperties.Schema != nil {
			out.AdditionalProperties = base.AdditionalProperties
		}
	case *schema.Comparison:
		if out.Type == nil {
			out.Type = &openapi3.Types{openapi3.TypeNumber}
		}
		switch s.Op {
		case schema.OpGt:
			out.WithMin(s.Bound).WithExclusiveMin(true)
		case schema.OpGe:
			out.WithMin(s.Bound)
		case schema.OpLt:
			out.WithMax(s.Bound).WithExclusiveMax(true)
		case schema.OpLe:
			out.WithMax(s.Bound)
		}
	case *schema.Enum:
		out.WithEnum(s.Values...)
	case *schema.Length:
		switch {
		case isType(out, openapi3.TypeArray):
			out.MinItems = uint64(s.Min)
			if s.Max >= 0 {
				out.WithMaxItems(int64(s.Max))
			}
		case isType(out, openapi3.TypeObject):
			out.MinProps = uint64(s.Min)
			if s.Max >= 0 {
				out.WithMaxProperties(int64(s.Max))
			}
		default:
			out.MinLength = uint64(s.Min)
			if s.Max >= 0 {
				out.WithMaxLength(int64(s.Max))
			}
		}
	case *schema.Pattern:
		if out.Type == nil {
			out.Type = &openapi3.Types{openapi3.TypeString}
		}
		out.WithPattern(s.Expr)
	case *schema.Items:
		out.Type = &openapi3.Types{openapi3.TypeArray}
		out.Items = openapi3.NewSchemaRef("", SchemaFor(s.Elem))
	case *schema.Object:
		out.Type = &openapi3.Types{openapi3.TypeObject}
		for _, f := range s.Fields {
			out.WithProperty(f.Name, SchemaFor(f.Schema))
			if f.Required {
				out.Required = append(out.Required, f.Name)
			}
		}
		if s.Strict {
			no := false
			out.AdditionalProperties = openapi3.AdditionalProperties{Has: &no}
		}
	case *schema.Rule:
		extend(out, "x-"+string(s.Engine), s.Source)
	case *schema.AllOf:
		for _, member := range s.Schemas {
			apply(out, member)
		}
	case *schema.CustomCheck:
		extend(out, "x-check", s.Name())
	}
}

func baseSchema(base schema.BaseType) *openapi3.Schema {
	switch base {
	case schema.TypeString:
		return openapi3.NewStringSchema()
	case schema.TypeInt:
		return openapi3.NewInt64Schema()
	case schema.TypeFloat:
		return openapi3.NewFloat64Schema()
	case schema.TypeBool:
		return openapi3.NewBoolSchema()
	case schema.TypeMap:
		return openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	case schema.TypeList:
		return openapi3.NewArraySchema().WithItems(openapi3.NewSchema())
	default:
		return openapi3.NewSchema()
	}
}

func isType(s *openapi3.Schema, typ string) bool {
	return s.Type != nil && s.Type.Is(typ)
}

func extend(out *openapi3.Schema, key string, v any) {
	if out.Extensions == nil {
		out.Extensions = make(map[string]any)
	}
	out.Extensions[key] = v
}
