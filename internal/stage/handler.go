package stage

import (
	"context"
	"log/slog"

	"teasers/internal/catalog"
	"teasers/internal/queue"
	"teasers/internal/segment"
)

// Job carries one catalog entry through the stages of a run. Paths are
// resolved once by the workflow manager; stages fill Manifest and the ledger
// counters as they go.
type Job struct {
	Entry        catalog.Entry
	Record       *queue.Entry
	AudioPath    string
	SubtitlePath string
	VocalsPath   string
	OutputDir    string
	Manifest     segment.Manifest
}

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *Job) error
	Execute(context.Context, *Job) error
	HealthCheck(context.Context) Health
}

// LoggerAware handlers receive a logger scoped to the entry and stage before
// Prepare runs.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
