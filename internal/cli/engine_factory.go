package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/mframework"
	"github.com/aretw0/mframework/pkg/registry"
)

// Options holds the flags shared by every command.
type Options struct {
	SpecPath string
	Debug    bool
	// Registry binds solvers named in spec files. Optional.
	Registry *registry.Registry
}

// createEngine opens a spec file with standard CLI conventions.
func createEngine(opts Options, logger *slog.Logger) (*mframework.Engine, error) {
	engineOpts := []mframework.Option{
		mframework.WithLogger(logger),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, mframework.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.Registry != nil {
		engineOpts = append(engineOpts, mframework.WithRegistry(opts.Registry))
	}

	engine, err := mframework.Open(opts.SpecPath, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
