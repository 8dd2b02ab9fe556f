package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/mframework/pkg/domain"
)

// Collector records feature creation, value validation and run outcomes.
type Collector struct {
	features    *prometheus.CounterVec
	values      *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// NewCollector creates the metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		features: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mframework_features_created_total",
				Help: "Total number of feature instances created",
			},
			[]string{"feature"},
		),
		values: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mframework_values_total",
				Help: "Total number of property values offered, by outcome",
			},
			[]string{"feature", "property", "outcome"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mframework_runs_total",
				Help: "Total number of model runs, by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mframework_run_duration_seconds",
				Help:    "Duration of model runs",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.features, c.values, c.runs, c.runDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks that feed the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFeatureCreated: func(e *domain.FeatureEvent) {
			c.features.WithLabelValues(e.Feature).Inc()
		},
		OnValueStored: func(e *domain.ValueEvent) {
			c.values.WithLabelValues(e.Feature, e.Property, "stored").Inc()
		},
		OnValueRejected: func(e *domain.ValueEvent) {
			c.values.WithLabelValues(e.Feature, e.Property, "rejected").Inc()
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			c.runs.WithLabelValues(outcome).Inc()
			c.runDuration.Observe(e.Duration.Seconds())
		},
	}
}
