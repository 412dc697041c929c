package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"teasers/internal/catalog"
	"teasers/internal/logging"
	"teasers/internal/metrics"
	"teasers/internal/services"
)

// Run processes entries sequentially. The returned error covers setup only:
// directories, the run lock and preflight. Per-entry failures, including
// ledger writes for that entry, are reported in the Summary. A cancelled context stops the batch before the next entry.
func (m *Manager) Run(ctx context.Context, entries []catalog.Entry) (Summary, error) {
	if m.store == nil {
		return Summary{}, errors.New("ledger store is required")
	}
	if m.stages.Isolation == nil || m.stages.Segmentation == nil {
		return Summary{}, errors.New("workflow stages not configured")
	}
	if err := m.cfg.EnsureDirectories(); err != nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "workflow", "ensure directories", "", err)
	}

	lock := flock.New(m.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return Summary{}, lockError(m.cfg.LockPath(), err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	summary := Summary{RunID: uuid.NewString(), Total: len(entries)}
	runCtx := services.WithRequestID(ctx, summary.RunID)
	logger := logging.WithContext(runCtx, m.logger)

	if err := m.runPreflightChecks(logger); err != nil {
		return summary, err
	}

	start := m.now()
	logger.Info("batch started",
		logging.Int("entries", len(entries)),
		logging.String("segments_dir", m.cfg.Paths.SegmentsDir),
		logging.String(logging.FieldEventType, "batch_start"),
	)

	for _, entry := range entries {
		if err := runCtx.Err(); err != nil {
			logging.WarnWithContext(logger, "batch cancelled", "batch_cancelled",
				logging.Int("remaining", summary.Total-len(summary.Entries)),
				logging.String(logging.FieldErrorHint, "rerun the batch to finish the remaining entries"),
			)
			m.finish(logger, summary, start)
			return summary, err
		}
		result := m.processEntry(runCtx, summary.RunID, entry)
		summary.Entries = append(summary.Entries, result)
		if result.IsolationSkipped {
			summary.Skipped++
		}
		if result.Err != nil {
			summary.Failed++
		} else {
			summary.Done++
		}
	}

	m.finish(logger, summary, start)
	return summary, nil
}

func (m *Manager) finish(logger *slog.Logger, summary Summary, start time.Time) {
	logger.Info("finished processing",
		logging.Int("entries", summary.Total),
		logging.Int("done", summary.Done),
		logging.Int("failed", summary.Failed),
		logging.Int("isolation_skipped", summary.Skipped),
		logging.Duration("elapsed", m.now().Sub(start)),
		logging.String(logging.FieldEventType, "batch_complete"),
	)
	m.writeMetrics()
}

func (m *Manager) writeMetrics() {
	if m.metrics == nil || m.cfg.Metrics.TextfilePath == "" {
		return
	}
	if err := m.metrics.WriteTextfile(m.cfg.Metrics.TextfilePath, m.now()); err != nil {
		logging.WarnWithContext(m.logger, "metrics textfile not written", "metrics_write_failed",
			logging.String("path", m.cfg.Metrics.TextfilePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check metrics.textfile_path permissions"),
		)
	}
}

func (m *Manager) observeOutcome(failed bool) {
	if m.metrics == nil {
		return
	}
	if failed {
		m.metrics.EntryFinished(metrics.OutcomeFailed)
		return
	}
	m.metrics.EntryFinished(metrics.OutcomeDone)
}

func (m *Manager) observeStage(name string, d time.Duration) {
	if m.metrics != nil {
		m.metrics.ObserveStage(name, d)
	}
}

func (m *Manager) observeSkip() {
	if m.metrics != nil {
		m.metrics.IsolationSkipped.Inc()
	}
}

func ledgerError(op string, err error) error {
	return services.Wrap(services.ErrFilesystemWrite, "ledger", op, "", err)
}
