package workflow

import (
	"context"

	"teasers/internal/logging"
	"teasers/internal/queue"
	"teasers/internal/stage"
)

// StatusSummary combines ledger counts with stage readiness.
type StatusSummary struct {
	Ledger      queue.Summary
	StageHealth map[string]stage.Health
}

// Status reports the ledger summary and each configured stage's health.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	summary := StatusSummary{StageHealth: make(map[string]stage.Health)}
	if m.store != nil {
		ledger, err := m.store.Summarize(ctx)
		if err != nil {
			m.logger.Warn("failed to read ledger summary",
				logging.Error(err),
				logging.String(logging.FieldEventType, "ledger_summary_failed"),
				logging.String(logging.FieldErrorHint, "check the ledger database under log_dir"),
			)
		}
		summary.Ledger = ledger
	}
	for _, stg := range m.stages.stages() {
		if stg.handler == nil {
			continue
		}
		summary.StageHealth[stg.name] = stg.handler.HealthCheck(ctx)
	}
	return summary
}
