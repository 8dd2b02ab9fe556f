package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/mframework/pkg/document"
	"github.com/aretw0/mframework/pkg/domain"
)

// Check runs the completeness pass without modifying the model. Every
// required feature with fewer instances than it needs and every required
// property with fewer values than it needs is collected; when both kinds are
// missing the errors are joined.
func (m *Model) Check() error {
	var missingFeatures []string
	var counts map[string]domain.ItemCount
	var missingProps []domain.MissingProperty

	for _, name := range m.typ.order {
		ft := m.typ.features[name]
		insts := m.features[name]
		if want := ft.entry.Want(); len(insts) < want {
			missingFeatures = append(missingFeatures, name)
			if want > 1 {
				if counts == nil {
					counts = make(map[string]domain.ItemCount)
				}
				counts[name] = domain.ItemCount{Have: len(insts), Want: want}
			}
		}
		for _, f := range insts {
			for _, pname := range ft.order {
				p := ft.props[pname]
				want := p.Want()
				have := f.count(p)
				if have >= want {
					continue
				}
				missing := domain.MissingProperty{Feature: name, Index: f.index, Property: pname}
				if want > 1 {
					missing.Count = &domain.ItemCount{Have: have, Want: want}
				}
				missingProps = append(missingProps, missing)
			}
		}
	}

	var errs []error
	if len(missingFeatures) > 0 {
		errs = append(errs, &domain.MissingRequiredFeatureError{Features: missingFeatures, Counts: counts})
	}
	if len(missingProps) > 0 {
		errs = append(errs, &domain.MissingRequiredPropertyError{Missing: missingProps})
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// Finalize checks completeness and then stores the defaults of every unset
// optional property, so the model is fully populated.
func (m *Model) Finalize() error {
	if err := m.Check(); err != nil {
		return err
	}
	for _, name := range m.typ.order {
		for _, f := range m.features[name] {
			f.applyDefaults()
		}
	}
	return nil
}

// Run finalizes the model, invokes the solver and wraps its output in a
// read-only Result. Without a solver the Result views the results model when
// one is declared, otherwise the finalized model itself.
func (m *Model) Run(ctx context.Context) (*Result, error) {
	cfg := m.typ.cfg
	start := time.Now()

	if hook := cfg.hooks.OnRunStart; hook != nil {
		hook(ctx, &domain.RunEvent{EventBase: m.eventBase(domain.EventRunStart)})
	}
	cfg.logger.Info("run started", "model", m.uid)

	res, err := m.run(ctx)

	duration := time.Since(start)
	if err != nil {
		cfg.logger.Warn("run failed", "model", m.uid, "duration", duration, "err", err)
	} else {
		cfg.logger.Info("run finished", "model", m.uid, "duration", duration)
	}
	if hook := cfg.hooks.OnRunFinish; hook != nil {
		hook(ctx, &domain.RunEvent{
			EventBase: m.eventBase(domain.EventRunFinish),
			Duration:  duration,
			Err:       err,
		})
	}
	return res, err
}

func (m *Model) run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Finalize(); err != nil {
		return nil, err
	}

	solver := m.typ.cfg.solver
	if solver == nil {
		if m.results != nil {
			return NewResult(Dump(m.results)), nil
		}
		return NewResult(Dump(m)), nil
	}

	out, err := solver(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	return m.wrapOutput(out)
}

func (m *Model) wrapOutput(out any) (*Result, error) {
	switch out := out.(type) {
	case nil:
		if m.results == nil {
			return NewResult(nil), nil
		}
		return m.wrapOutput(m.results)
	case *Model:
		if err := out.Check(); err != nil {
			return nil, fmt.Errorf("results: %w", err)
		}
		return NewResult(Dump(out)), nil
	case *Result:
		return out, nil
	case *document.Document:
		return NewResult(out), nil
	case map[string]any:
		return NewResult(document.FromMap(out)), nil
	default:
		return nil, fmt.Errorf("solve: unsupported result type %T", out)
	}
}

func (m *Model) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, ModelID: m.uid}
}
