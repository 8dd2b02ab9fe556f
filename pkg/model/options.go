package model

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/schema"
)

// Solver receives a complete model and returns its results.
// The return value may be nil (use the populated Results model), a *Model,
// a *document.Document or a map[string]any.
type Solver func(ctx context.Context, m *Model) (any, error)

type config struct {
	logger    *slog.Logger
	solver    Solver
	matcher   schema.Matcher
	overwrite bool
	hooks     domain.LifecycleHooks
}

// Option defines a functional option for compiling a model type.
type Option func(*config)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSolver sets the routine invoked by Model.Run.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithMatcher replaces the schema matcher used to validate every value.
func WithMatcher(m schema.Matcher) Option {
	return func(c *config) {
		c.matcher = m
	}
}

// WithOverwrite lets SetFeature and Set replace an existing singleton.
// Without it a second call fails with domain.ErrAlreadySet.
func WithOverwrite() Option {
	return func(c *config) {
		c.overwrite = true
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.matcher == nil {
		cfg.matcher = schema.DefaultMatcher()
	}
	return cfg
}
