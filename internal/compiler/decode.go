package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/mframework/internal/dto"
	"github.com/aretw0/mframework/pkg/document"
)

// Decode parses a YAML or JSON spec file. Unknown keys are rejected.
func Decode(data []byte, f document.Format) (*dto.ModelFile, error) {
	doc, err := document.Unmarshal(data, f)
	if err != nil {
		return nil, err
	}

	var mf dto.ModelFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &mf,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc.ToMap()); err != nil {
		return nil, fmt.Errorf("failed to decode spec file: %w", err)
	}
	return &mf, nil
}
