package logging

import (
	"context"
	"log/slog"

	"teasers/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEntry is the standardized structured logging key for catalog entry filenames.
	FieldEntry = "entry"
	// FieldStage is the standardized structured logging key for workflow stage names.
	FieldStage = "stage"
	// FieldCorrelationID is the standardized structured logging key for the batch run identifier.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step an operator should take.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorKind carries services.Kind for wrapped failures.
	FieldErrorKind = "error_kind"
)

// ContextFields returns the entry, stage and run id carried by ctx as attrs.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	lookups := []struct {
		key string
		get func(context.Context) (string, bool)
	}{
		{FieldEntry, services.EntryFromContext},
		{FieldStage, services.StageFromContext},
		{FieldCorrelationID, services.RequestIDFromContext},
	}
	var fields []slog.Attr
	for _, l := range lookups {
		if v, ok := l.get(ctx); ok {
			fields = append(fields, slog.String(l.key, v))
		}
	}
	return fields
}

// WithContext adds ContextFields(ctx) to logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if fields := ContextFields(ctx); len(fields) > 0 {
		return logger.With(Args(fields...)...)
	}
	return logger
}
