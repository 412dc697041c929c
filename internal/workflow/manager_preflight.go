package workflow

import (
	"fmt"
	"log/slog"

	"teasers/internal/logging"
	"teasers/internal/preflight"
	"teasers/internal/services"
)

// runPreflightChecks logs every check. Only an unusable segments directory
// stops the batch; everything else is a warning.
func (m *Manager) runPreflightChecks(logger *slog.Logger) error {
	results := preflight.RunAll(m.cfg)
	for _, r := range results {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldErrorHint, "fix the reported issue before relying on this run"),
		)
	}
	for _, status := range preflight.CheckSystemDeps(m.cfg, false) {
		if status.Available || status.Optional {
			continue
		}
		logging.WarnWithContext(logger, "dependency unavailable", "dependency_missing",
			logging.String("dependency", status.Name),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldImpact, "entries that still need vocal isolation will fail"),
			logging.String(logging.FieldErrorHint, "install "+status.Name+" or set separator.binary"),
		)
	}
	if blocked, ok := preflight.Blocking(results); ok {
		return services.Wrap(services.ErrConfiguration, "preflight", blocked.Name, blocked.Detail, nil)
	}
	return nil
}

func lockError(path string, err error) error {
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "acquire run lock", path, err)
	}
	return services.Wrap(services.ErrConfiguration, "workflow", "acquire run lock",
		fmt.Sprintf("another teasers run holds %s", path), nil)
}
