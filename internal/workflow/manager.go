package workflow

import (
	"log/slog"
	"time"

	"teasers/internal/config"
	"teasers/internal/logging"
	"teasers/internal/metrics"
	"teasers/internal/queue"
)

// Manager coordinates one batch run over the catalog.
type Manager struct {
	cfg     *config.Config
	store   *queue.Store
	logger  *slog.Logger
	stages  StageSet
	metrics *metrics.Metrics
	now     func() time.Time
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithMetrics records batch counters and writes the textfile configured in
// [metrics] after each run.
func WithMetrics(m *metrics.Metrics) ManagerOption {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) ManagerOption {
	return func(mgr *Manager) {
		if now != nil {
			mgr.now = now
		}
	}
}

// NewManager constructs a new workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "workflow"),
		stages: set,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
