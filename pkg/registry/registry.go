package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/mframework/pkg/model"
)

// Registry manages named solvers, so a spec file can refer to the routine
// that computes its results.
type Registry struct {
	mu      sync.RWMutex
	solvers map[string]model.Solver
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		solvers: make(map[string]model.Solver),
	}
}

// Register adds a solver to the registry.
// If a solver with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn model.Solver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.solvers[name] = fn
}

// Lookup returns the solver registered under name.
func (r *Registry) Lookup(name string) (model.Solver, error) {
	r.mu.RLock()
	fn, ok := r.solvers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("solver not found: %s", name)
	}
	return fn, nil
}

// Solve looks up a solver by name and runs it against m.
func (r *Registry) Solve(ctx context.Context, name string, m *model.Model) (any, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return fn(ctx, m)
}

// Names returns the registered solver names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
