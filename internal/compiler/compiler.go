package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mframework/internal/dto"
	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// File is a spec file compiled into a ModelSpec.
type File struct {
	Path string
	Spec *spec.ModelSpec
	// Solver names a registered solver; empty when the file names none.
	Solver string
}

// LoadFile reads a spec file. The format is chosen by extension:
// .yaml, .yml and .json decode through mapstructure, .hcl through gohcl.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	var mf *dto.ModelFile
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		mf, err = DecodeHCL(data, path)
	} else {
		var f document.Format
		f, err = document.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		mf, err = Decode(data, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ms, err := Build(mf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{Path: path, Spec: ms, Solver: mf.Solver}, nil
}

// Build turns a decoded spec file into a ModelSpec, including its results
// spec. Registration errors are collected per feature and property.
func Build(mf *dto.ModelFile) (*spec.ModelSpec, error) {
	if mf == nil {
		return nil, fmt.Errorf("%w: empty spec file", domain.ErrInvalidSpec)
	}

	ms := spec.NewModelSpec()
	if mf.Doc != "" {
		if err := ms.SetDoc(mf.Doc); err != nil {
			return nil, err
		}
	}

	for _, ff := range mf.Features {
		fs := spec.NewFeatureSpec()
		for _, pf := range ff.Properties {
			if pf.Schema == nil {
				return nil, fmt.Errorf("%w: %s.%s has no schema", domain.ErrInvalidSpec, ff.Name, pf.Name)
			}
			s, err := schema.Parse(pf.Schema)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", ff.Name, pf.Name, err)
			}
			if err := fs.AddPropSpec(pf.Name, s, propertyOptions(pf)...); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", ff.Name, pf.Name, err)
			}
		}
		if err := ms.AddFeatureSpec(ff.Name, fs, featureOptions(ff)...); err != nil {
			return nil, fmt.Errorf("%s: %w", ff.Name, err)
		}
	}

	if mf.Results != nil {
		rs, err := Build(mf.Results)
		if err != nil {
			return nil, fmt.Errorf("results: %w", err)
		}
		if err := ms.SetResults(rs); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

// MinItems goes first so that a conflicting required or default setting is
// reported instead of overridden.
func featureOptions(ff dto.FeatureFile) []spec.Option {
	var opts []spec.Option
	if ff.MinItems != 0 {
		opts = append(opts, spec.MinItems(ff.MinItems))
	}
	if ff.Multiple {
		opts = append(opts, spec.Multiple())
	}
	if ff.UIDRequired {
		opts = append(opts, spec.UIDRequired())
	}
	if !ff.IsRequired() {
		opts = append(opts, spec.Optional())
	}
	if ff.MaxItems != 0 {
		opts = append(opts, spec.MaxItems(ff.MaxItems))
	}
	if ff.Doc != "" {
		opts = append(opts, spec.Doc(ff.Doc))
	}
	return opts
}

func propertyOptions(pf dto.PropertyFile) []spec.Option {
	var opts []spec.Option
	if pf.MinItems != 0 {
		opts = append(opts, spec.MinItems(pf.MinItems))
	}
	if pf.Multiple {
		opts = append(opts, spec.Multiple())
	}
	if pf.UIDRequired {
		opts = append(opts, spec.UIDRequired())
	}
	if pf.Default != nil {
		opts = append(opts, spec.Default(pf.Default))
	} else if !pf.IsRequired() {
		opts = append(opts, spec.Optional())
	}
	if pf.MaxItems != 0 {
		opts = append(opts, spec.MaxItems(pf.MaxItems))
	}
	if pf.Doc != "" {
		opts = append(opts, spec.Doc(pf.Doc))
	}
	return opts
}
