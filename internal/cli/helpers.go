package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mframework/internal/logging"
	"github.com/aretw0/mframework/pkg/domain"
)

// CreateLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout documents).
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFeatureCreated: func(e *domain.FeatureEvent) {
			logger.Debug("Feature Created", "feature", e.Feature, "index", e.Index)
		},
		OnValueStored: func(e *domain.ValueEvent) {
			logger.Debug("Value Stored", "feature", e.Feature, "property", e.Property)
		},
		OnValueRejected: func(e *domain.ValueEvent) {
			logger.Debug("Value Rejected", "feature", e.Feature, "property", e.Property, "err", e.Err)
		},
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "model_id", e.ModelID)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Finish", "model_id", e.ModelID, "duration", e.Duration, "err", e.Err)
		},
	}
}

// causes splits a joined error into its parts.
func causes(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
