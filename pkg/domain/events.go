package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFeatureCreated EventType = "feature_created"
	EventValueStored    EventType = "value_stored"
	EventValueRejected  EventType = "value_rejected"
	EventRunStart       EventType = "run_start"
	EventRunFinish      EventType = "run_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ModelID   string    `json:"model_id"`
}

// FeatureEvent represents the creation of a feature instance.
type FeatureEvent struct {
	EventBase
	Feature string `json:"feature"`
	Index   int    `json:"index"`
}

// ValueEvent represents a set/add call on a property.
type ValueEvent struct {
	EventBase
	Feature  string `json:"feature"`
	Property string `json:"property"`
	Value    any    `json:"value,omitempty"`
	Err      error  `json:"-"`
}

// RunEvent represents the start or end of a run.
type RunEvent struct {
	EventBase
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for model observability.
// Mutation hooks fire synchronously inside the accessor call.
type LifecycleHooks struct {
	OnFeatureCreated func(*FeatureEvent)
	OnValueStored    func(*ValueEvent)
	OnValueRejected  func(*ValueEvent)
	OnRunStart       func(context.Context, *RunEvent)
	OnRunFinish      func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnFeatureCreated: chain(h.OnFeatureCreated, other.OnFeatureCreated),
		OnValueStored:    chain(h.OnValueStored, other.OnValueStored),
		OnValueRejected:  chain(h.OnValueRejected, other.OnValueRejected),
		OnRunStart:       chainCtx(h.OnRunStart, other.OnRunStart),
		OnRunFinish:      chainCtx(h.OnRunFinish, other.OnRunFinish),
	}
}

func chain[E any](a, b func(E)) func(E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}

func chainCtx[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
