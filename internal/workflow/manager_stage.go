package workflow

import (
	"context"
	"fmt"

	"teasers/internal/catalog"
	"teasers/internal/logging"
	"teasers/internal/queue"
	"teasers/internal/services"
	"teasers/internal/stage"
	"teasers/internal/stageexec"
)

// processEntry runs one catalog entry to completion or failure. Failures,
// ledger writes included, land in the EntryResult so the batch continues.
func (m *Manager) processEntry(ctx context.Context, runID string, entry catalog.Entry) EntryResult {
	entryCtx := services.WithEntry(ctx, entry.Filename)
	logger := logging.WithContext(entryCtx, m.logger)
	for _, warning := range entry.LanguageWarnings() {
		logger.Warn("catalog language code",
			logging.String("detail", warning),
			logging.String(logging.FieldEventType, "catalog_language_warning"),
			logging.String(logging.FieldErrorHint, "use BCP 47 codes such as en or pt-BR"),
		)
	}

	record := &queue.Entry{
		Filename:     entry.Filename,
		URL:          entry.URL,
		AudioPath:    m.cfg.DataPath(entry.AudioFilename),
		SubtitlePath: m.cfg.DataPath(entry.SubtitleFilename()),
		VocalsPath:   m.cfg.VocalsPath(entry.Filename),
		OutputDir:    m.cfg.EntryDir(entry.Filename),
		RunID:        runID,
	}
	result := EntryResult{Filename: entry.Filename}
	if err := m.store.Upsert(entryCtx, record); err != nil {
		wrapped := ledgerError("upsert", err)
		logging.ErrorWithContext(logger, "entry not recorded in ledger", "ledger_upsert_failed",
			logging.String(logging.FieldErrorKind, services.Kind(wrapped)),
			logging.String(logging.FieldErrorHint, "check free space and permissions for the ledger under log_dir"),
			logging.Error(err),
		)
		return m.entryFailed(result, record, wrapped)
	}
	job := &stage.Job{
		Entry:        entry,
		Record:       record,
		AudioPath:    record.AudioPath,
		SubtitlePath: record.SubtitlePath,
		VocalsPath:   record.VocalsPath,
		OutputDir:    record.OutputDir,
	}

	state, err := IsolationState(job.VocalsPath)
	if err != nil {
		wrapped := services.Wrap(services.ErrEntryIO, "isolating", "inspect vocals", job.VocalsPath, err)
		m.failEntry(entryCtx, "isolating", record, wrapped)
		return m.entryFailed(result, record, wrapped)
	}
	if state == Complete {
		record.Status = queue.StatusIsolated
		record.IsolationSkipped = true
		if err := m.store.Update(entryCtx, record); err != nil {
			return m.entryFailed(result, record, ledgerError("update", err))
		}
		result.IsolationSkipped = true
		m.observeSkip()
		logger.Info("vocal isolation skipped",
			logging.String("vocals", job.VocalsPath),
			logging.String(logging.FieldEventType, "isolation_skipped"),
		)
	}

	for _, stg := range m.stages.stages() {
		if stg.processingStatus == queue.StatusIsolating && result.IsolationSkipped {
			continue
		}
		started := m.now()
		err := stageexec.Run(entryCtx, stageexec.Options{
			Logger:     m.logger,
			Store:      m.store,
			Handler:    stg.handler,
			StageName:  stg.name,
			Processing: stg.processingStatus,
			Done:       stg.doneStatus,
			Job:        job,
		})
		m.observeStage(stg.name, m.now().Sub(started))
		if err != nil {
			if record.Status != queue.StatusFailed {
				m.failEntry(entryCtx, stg.name, record, err)
			}
			return m.entryFailed(result, record, err)
		}
	}

	result.Status = record.Status
	result.Segments = record.SegmentsTotal
	m.observeOutcome(false)
	logger.Info(fmt.Sprintf("DONE: %s segments: %d", entry.AudioFilename, record.SegmentsTotal),
		logging.Int("cues", record.CuesTotal),
		logging.Int("segments", record.SegmentsTotal),
		logging.Bool("isolation_skipped", record.IsolationSkipped),
		logging.String(logging.FieldEventType, "entry_complete"),
	)
	return result
}

// failEntry records a failure the stage executor did not persist itself.
func (m *Manager) failEntry(ctx context.Context, stageName string, record *queue.Entry, err error) {
	record.SetFailed(stageName, err)
	logger := logging.WithContext(services.WithStage(ctx, stageName), m.logger)
	logging.ErrorWithContext(logger, "entry failed", "entry_failed",
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.String(logging.FieldErrorHint, "see the error and rerun the batch once fixed"),
		logging.Error(err),
	)
	if updateErr := m.store.Update(ctx, record); updateErr != nil {
		logger.Error("failed to persist entry failure", logging.Error(updateErr))
	}
}

func (m *Manager) entryFailed(result EntryResult, record *queue.Entry, err error) EntryResult {
	result.Status = queue.StatusFailed
	result.IsolationSkipped = record.IsolationSkipped
	result.Err = err
	m.observeOutcome(true)
	return result
}
