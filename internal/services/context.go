package services

import "context"

type contextKey uint8

const (
	entryKey contextKey = iota
	stageKey
	requestIDKey
)

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	value, _ := ctx.Value(key).(string)
	return value, value != ""
}

// WithEntry tags ctx with the catalog entry filename being processed.
func WithEntry(ctx context.Context, filename string) context.Context {
	return withString(ctx, entryKey, filename)
}

// EntryFromContext returns the filename set by WithEntry.
func EntryFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, entryKey) }

// WithStage tags ctx with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

// StageFromContext returns the stage set by WithStage.
func StageFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, stageKey) }

// WithRequestID tags ctx with the batch run identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the run identifier set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, requestIDKey) }
