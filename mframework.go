package mframework

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/mframework/internal/compiler"
	"github.com/aretw0/mframework/pkg/adapters/memory"
	"github.com/aretw0/mframework/pkg/docgen"
	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
	"github.com/aretw0/mframework/pkg/model"
	"github.com/aretw0/mframework/pkg/ports"
	"github.com/aretw0/mframework/pkg/registry"
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// Version is the mframework release.
const Version = "0.1.0"

// DocFormat selects the markup produced by Engine.Docs.
type DocFormat string

const (
	DocMarkdown DocFormat = "markdown"
	DocRST      DocFormat = "rst"
)

// Engine is the high-level entry point for the mframework library.
// It compiles a ModelSpec once and hands out models of that type.
type Engine struct {
	spec       *spec.ModelSpec
	typ        *model.Type
	store      ports.DocumentStore
	registry   *registry.Registry
	solver     model.Solver
	solverName string
	matcher    schema.Matcher
	overwrite  bool
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSolver sets the routine invoked by Run. It takes precedence over a
// solver named in a spec file.
func WithSolver(s model.Solver) Option {
	return func(e *Engine) {
		e.solver = s
	}
}

// WithRegistry resolves the solver named in a spec file.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithStore sets the DocumentStore used by Save and Restore.
// Defaults to an in-memory store.
func WithStore(s ports.DocumentStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls chain.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithOverwrite lets singletons be replaced instead of failing with
// domain.ErrAlreadySet.
func WithOverwrite() Option {
	return func(e *Engine) {
		e.overwrite = true
	}
}

// WithMatcher replaces the schema matcher.
func WithMatcher(m schema.Matcher) Option {
	return func(e *Engine) {
		e.matcher = m
	}
}

// WithName labels the engine in logs and generated documents.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New compiles ms into an Engine. The spec is frozen.
func New(ms *spec.ModelSpec, opts ...Option) (*Engine, error) {
	eng := &Engine{spec: ms}
	for _, opt := range opts {
		opt(eng)
	}
	return eng.init()
}

// Open loads a spec file (.yaml, .yml, .json or .hcl) and compiles it.
func Open(path string, opts ...Option) (*Engine, error) {
	f, err := compiler.LoadFile(path)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		spec:       f.Spec,
		solverName: f.Solver,
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng.init()
}

func (e *Engine) init() (*Engine, error) {
	if e.spec == nil {
		return nil, fmt.Errorf("%w: nil model spec", domain.ErrInvalidSpec)
	}

	// Ensure logger is initialized (so we don't pass nil to the model, which would overwrite its default)
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.Name != "" {
		e.logger = e.logger.With("model", e.Name)
	}

	if e.solver == nil && e.solverName != "" {
		if e.registry == nil {
			e.logger.Warn("Solver not bound", "solver", e.solverName)
		} else {
			s, err := e.registry.Lookup(e.solverName)
			if err != nil {
				return nil, err
			}
			e.solver = s
		}
	}

	if e.store == nil {
		e.store = memory.NewStore()
	}

	opts := []model.Option{
		model.WithLogger(e.logger),
		model.WithHooks(e.hooks),
	}
	if e.solver != nil {
		opts = append(opts, model.WithSolver(e.solver))
	}
	if e.matcher != nil {
		opts = append(opts, model.WithMatcher(e.matcher))
	}
	if e.overwrite {
		opts = append(opts, model.WithOverwrite())
	}

	typ, err := model.Compile(e.spec, opts...)
	if err != nil {
		return nil, err
	}
	e.typ = typ
	return e, nil
}

// Spec returns the frozen ModelSpec.
func (e *Engine) Spec() *spec.ModelSpec { return e.spec }

// Type returns the compiled model type.
func (e *Engine) Type() *model.Type { return e.typ }

// SolverName returns the solver named by the spec file, if any.
func (e *Engine) SolverName() string { return e.solverName }

// NewModel returns an empty model.
func (e *Engine) NewModel() *model.Model {
	return e.typ.New()
}

// Load rebuilds a model from a document, validating every value.
func (e *Engine) Load(doc *document.Document) (*model.Model, error) {
	return e.typ.Load(doc)
}

// Validate loads doc and runs the completeness check without solving.
func (e *Engine) Validate(doc *document.Document) error {
	m, err := e.typ.Load(doc)
	if err != nil {
		return err
	}
	return m.Check()
}

// Run checks m, applies defaults and invokes the solver.
func (e *Engine) Run(ctx context.Context, m *model.Model) (*model.Result, error) {
	if err := e.owns(m); err != nil {
		return nil, err
	}
	return m.Run(ctx)
}

func (e *Engine) owns(m *model.Model) error {
	if m == nil || m.Type() != e.typ {
		return fmt.Errorf("%w: model was not created by this engine", domain.ErrInvalidModel)
	}
	return nil
}

// Save dumps m to the store under key.
func (e *Engine) Save(ctx context.Context, key string, m *model.Model) error {
	if err := e.owns(m); err != nil {
		return err
	}
	if err := e.store.Save(ctx, key, model.Dump(m)); err != nil {
		return fmt.Errorf("failed to save model %q: %w", key, err)
	}
	e.logger.Debug("Model saved", "key", key, "uid", m.UID())
	return nil
}

// Restore loads the document stored under key into a new model.
func (e *Engine) Restore(ctx context.Context, key string) (*model.Model, error) {
	doc, err := e.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	m, err := e.typ.Load(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to restore model %q: %w", key, err)
	}
	e.logger.Debug("Model restored", "key", key, "uid", m.UID())
	return m, nil
}

// Store returns the DocumentStore used by Save and Restore.
func (e *Engine) Store() ports.DocumentStore { return e.store }

// Docs renders the spec documentation.
func (e *Engine) Docs(format DocFormat) (string, error) {
	title := e.Name
	if title == "" {
		title = "Model"
	}
	switch format {
	case DocMarkdown, "md", "":
		return docgen.Markdown(e.spec, title), nil
	case DocRST:
		return docgen.RST(e.spec, title), nil
	default:
		return "", fmt.Errorf("unknown doc format: %q", format)
	}
}

// Tree returns the structured documentation of the spec.
func (e *Engine) Tree() *docgen.Tree {
	return docgen.BuildTree(e.spec)
}

// Graph returns the Mermaid feature graph of the spec.
func (e *Engine) Graph() string {
	return docgen.FeatureGraph(e.spec)
}

// Schemas returns the OpenAPI component schemas of the model document and
// of its results document.
func (e *Engine) Schemas() openapi3.Schemas {
	return docgen.Components(e.spec)
}
