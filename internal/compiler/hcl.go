package compiler

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/aretw0/mframework/internal/dto"
)

// hclModelFile is the top-level structure of an HCL spec file.
type hclModelFile struct {
	Doc      string        `hcl:"doc,optional"`
	Solver   string        `hcl:"solver,optional"`
	Features []*hclFeature `hcl:"feature,block"`
	Results  *hclResults   `hcl:"results,block"`
}

type hclResults struct {
	Doc      string        `hcl:"doc,optional"`
	Features []*hclFeature `hcl:"feature,block"`
}

type hclFeature struct {
	Name        string         `hcl:"name,label"`
	Doc         string         `hcl:"doc,optional"`
	Multiple    bool           `hcl:"multiple,optional"`
	Required    *bool          `hcl:"required,optional"`
	MinItems    int            `hcl:"min_items,optional"`
	MaxItems    int            `hcl:"max_items,optional"`
	UIDRequired bool           `hcl:"uid_required,optional"`
	Properties  []*hclProperty `hcl:"property,block"`
}

type hclProperty struct {
	Name        string         `hcl:"name,label"`
	Schema      hcl.Expression `hcl:"schema,attr"`
	Doc         string         `hcl:"doc,optional"`
	Multiple    bool           `hcl:"multiple,optional"`
	Required    *bool          `hcl:"required,optional"`
	MinItems    int            `hcl:"min_items,optional"`
	MaxItems    int            `hcl:"max_items,optional"`
	UIDRequired bool           `hcl:"uid_required,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}

// DecodeHCL parses an HCL spec file:
//
//	doc = "A conceptual aircraft"
//
//	feature "wing" {
//	  multiple = true
//	  property "area" {
//	    schema = { type = "float", ">" = 0 }
//	  }
//	}
func DecodeHCL(data []byte, filename string) (*dto.ModelFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclModelFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	mf := &dto.ModelFile{Doc: parsed.Doc, Solver: parsed.Solver}
	features, err := convertFeatures(parsed.Features)
	if err != nil {
		return nil, err
	}
	mf.Features = features

	if parsed.Results != nil {
		rf, err := convertFeatures(parsed.Results.Features)
		if err != nil {
			return nil, fmt.Errorf("results: %w", err)
		}
		mf.Results = &dto.ModelFile{Doc: parsed.Results.Doc, Features: rf}
	}
	return mf, nil
}

func convertFeatures(in []*hclFeature) ([]dto.FeatureFile, error) {
	out := make([]dto.FeatureFile, 0, len(in))
	for _, hf := range in {
		ff := dto.FeatureFile{
			Name:        hf.Name,
			Doc:         hf.Doc,
			Multiple:    hf.Multiple,
			Required:    hf.Required,
			MinItems:    hf.MinItems,
			MaxItems:    hf.MaxItems,
			UIDRequired: hf.UIDRequired,
		}
		for _, hp := range hf.Properties {
			desc, err := evalNative(hp.Schema)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: schema: %w", hf.Name, hp.Name, err)
			}
			def, err := evalNative(hp.Default)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: default: %w", hf.Name, hp.Name, err)
			}
			ff.Properties = append(ff.Properties, dto.PropertyFile{
				Name:        hp.Name,
				Schema:      desc,
				Doc:         hp.Doc,
				Multiple:    hp.Multiple,
				Required:    hp.Required,
				MinItems:    hp.MinItems,
				MaxItems:    hp.MaxItems,
				UIDRequired: hp.UIDRequired,
				Default:     def,
			})
		}
		out = append(out, ff)
	}
	return out, nil
}

// evalNative evaluates a constant expression. Absent optional attributes
// evaluate to null and yield nil.
func evalNative(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(v)
}

// ctyToNative recursively converts a cty.Value to its Go counterpart.
// Whole numbers that fit an int become int, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nativeVal)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			keyStr := key.AsString()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = nativeVal
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported cty type: %s", ty.FriendlyName())
	}
}
