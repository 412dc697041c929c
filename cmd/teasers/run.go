package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"teasers/internal/catalog"
	"teasers/internal/config"
	"teasers/internal/isolation"
	"teasers/internal/logging"
	"teasers/internal/metrics"
	"teasers/internal/publishing"
	"teasers/internal/queue"
	"teasers/internal/segmentation"
	"teasers/internal/workflow"
)

// runBatch processes the whole catalog. Entry failures are reported in the
// summary and do not change the exit status; catalog, ledger and lock
// problems do.
func runBatch(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, closer, err := ctx.logger(cmd)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	entries, err := catalog.Load(cfg.Paths.Catalog)
	if err != nil {
		logging.ErrorWithContext(logger, "catalog load failed", "catalog_load_failed",
			logging.String("catalog", cfg.Paths.Catalog),
			logging.String(logging.FieldErrorHint, "fix the catalog file or point paths.catalog at it"),
			logging.Error(err),
		)
		return err
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	m := metrics.New()
	set, err := buildStageSet(cmd.Context(), ctx, cfg, m, logger)
	if err != nil {
		return err
	}

	manager := workflow.NewManager(cfg, store, logger, set, workflow.WithMetrics(m))
	summary, err := manager.Run(cmd.Context(), entries)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d entries: %d done, %d failed, %d reused vocals\n",
		summary.Total, summary.Done, summary.Failed, summary.Skipped)
	for _, failed := range summary.FailedEntries() {
		fmt.Fprintf(out, "  %s: %s\n", failed.Filename, strings.TrimSpace(failed.Err.Error()))
	}
	return nil
}

func buildStageSet(ctx context.Context, cc *commandContext, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (workflow.StageSet, error) {
	set := workflow.StageSet{
		Isolation:    isolation.NewHandler(cfg, cc.deps.separator(cfg), logger),
		Segmentation: segmentation.NewHandler(cfg, m, logger),
	}
	if cfg.Publish.Enabled {
		objects, err := cc.deps.objectStore(ctx, cfg)
		if err != nil {
			return set, fmt.Errorf("init publish store: %w", err)
		}
		set.Publishing = publishing.NewHandler(cfg, objects, logger)
	}
	return set, nil
}
