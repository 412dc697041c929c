package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"teasers/internal/logging"
	"teasers/internal/queue"
	"teasers/internal/services"
	"teasers/internal/stage"
)

// Handler is the stage contract used by the execution helper.
type Handler interface {
	Prepare(context.Context, *stage.Job) error
	Execute(context.Context, *stage.Job) error
}

// Options controls stage execution and ledger persistence behavior.
type Options struct {
	Logger     *slog.Logger
	Store      *queue.Store
	Handler    Handler
	StageName  string
	Processing queue.Status
	Done       queue.Status
	Job        *stage.Job
}

// Run executes one stage for one entry, persisting the processing status
// before the handler runs and the done or failed status afterwards.
func Run(ctx context.Context, opts Options) error {
	if opts.Handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	if opts.Store == nil {
		return fmt.Errorf("ledger store is required")
	}
	if opts.Job == nil || opts.Job.Record == nil {
		return fmt.Errorf("stage job is required")
	}
	job := opts.Job

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	if aware, ok := opts.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	stageLogger.Debug(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(opts.Processing)),
	)

	job.Record.Status = opts.Processing
	if err := opts.Store.Update(stageCtx, job.Record); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := opts.Handler.Prepare(stageCtx, job); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.StageName, job, err)
	}
	if err := opts.Handler.Execute(stageCtx, job); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.StageName, job, err)
	}

	if job.Record.Status == opts.Processing || job.Record.Status == "" {
		job.Record.Status = opts.Done
	}
	if err := opts.Store.Update(stageCtx, job.Record); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Debug(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(job.Record.Status)),
	)
	return nil
}

func handleFailure(ctx context.Context, logger *slog.Logger, store *queue.Store, stageName string, job *stage.Job, stageErr error) error {
	details := services.Details(stageErr)
	message := strings.TrimSpace(details.Message)
	if message == "" {
		message = strings.TrimSpace(stageErr.Error())
	}
	job.Record.SetFailed(stageName, stageErr)

	logging.ErrorWithContext(logger, "stage failed", "stage_failure",
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.String(logging.FieldErrorHint, hintFor(details.Kind)),
		logging.String("error_message", message),
		logging.Error(stageErr),
	)
	if err := store.Update(ctx, job.Record); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
	return stageErr
}

func hintFor(kind string) string {
	switch kind {
	case "entry_io":
		return "check the audio and subtitle files named in the catalog"
	case "separation":
		return "check the separator model and its output stems"
	case "subtitle_parse":
		return "fix the subtitle file timing lines or encoding"
	case "filesystem_write":
		return "check free space and permissions on the segments directory"
	case "external_tool":
		return "run the external tool by hand to see its error"
	default:
		return "check logs for details"
	}
}
