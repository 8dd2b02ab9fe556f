package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mframework/pkg/model"
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("zero", func(ctx context.Context, m *model.Model) (any, error) {
		return map[string]any{"value": 0}, nil
	})
	r.Register("echo", func(ctx context.Context, m *model.Model) (any, error) {
		return model.Dump(m), nil
	})
	assert.Equal(t, []string{"echo", "zero"}, r.Names())

	fs := spec.NewFeatureSpec().Prop("x", schema.Int(), spec.Optional())
	m := model.MustCompile(spec.NewModelSpec().With("point", fs, spec.Optional())).New()

	out, err := r.Solve(context.Background(), "zero", m)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": 0}, out)

	_, err = r.Solve(context.Background(), "missing", m)
	assert.EqualError(t, err, "solver not found: missing")

	r.Register("zero", func(ctx context.Context, m *model.Model) (any, error) { return nil, nil })
	out, err = r.Solve(context.Background(), "zero", m)
	require.NoError(t, err)
	assert.Nil(t, out)
}
