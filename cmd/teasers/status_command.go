package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"teasers/internal/config"
	"teasers/internal/logging"
	"teasers/internal/metrics"
	"teasers/internal/preflight"
	"teasers/internal/queue"
	"teasers/internal/stage"
	"teasers/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the run ledger and external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses, err := parseStatusFilters(filters)
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return fmt.Errorf("list ledger: %w", err)
			}
			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return fmt.Errorf("summarize ledger: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Ledger", colorize) {
				fmt.Fprintln(out, line)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No ledger entries")
			} else {
				fmt.Fprintln(out, renderLedgerTable(entries))
			}
			fmt.Fprintf(out, "Total %d: %d done, %d failed, %d pending, %d processing\n\n",
				summary.Total, summary.Done, summary.Failed, summary.Pending, summary.Processing)

			for _, line := range renderSectionHeader("System", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range systemStatusLines(cfg, colorize) {
				fmt.Fprintln(out, line)
			}

			set, err := buildStageSet(cmd.Context(), ctx, cfg, metrics.New(), logging.NewNop())
			if err != nil {
				return err
			}
			health := workflow.NewManager(cfg, store, logging.NewNop(), set).Status(cmd.Context())
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Stages", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range stageHealthLines(health.StageHealth, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&filters, "status", "s", nil, "Only show entries with these statuses")
	return cmd
}

func parseStatusFilters(values []string) ([]queue.Status, error) {
	statuses := make([]queue.Status, 0, len(values))
	for _, value := range values {
		status, ok := queue.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func renderLedgerTable(entries []*queue.Entry) string {
	headers := []string{"Entry", "Status", "Cues", "Segments", "Vocals Reused", "Error"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		errText := ""
		if entry.Status == queue.StatusFailed {
			errText = strings.TrimSpace(entry.ErrorStage + ": " + entry.ErrorKind)
		}
		rows = append(rows, []string{
			entry.Filename,
			string(entry.Status),
			strconv.Itoa(entry.CuesTotal),
			strconv.Itoa(entry.SegmentsTotal),
			yesNo(entry.IsolationSkipped),
			errText,
		})
	}
	return renderTable(headers, rows, aligns)
}

func systemStatusLines(cfg *config.Config, colorize bool) []string {
	var lines []string
	for _, result := range preflight.RunAll(cfg) {
		kind := statusOK
		if !result.Passed {
			kind = statusWarn
			if _, blocking := preflight.Blocking([]preflight.Result{result}); blocking {
				kind = statusError
			}
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
	for _, dep := range preflight.CheckSystemDeps(cfg, false) {
		switch {
		case dep.Available:
			lines = append(lines, renderStatusLine(dep.Name, statusOK, dep.Path, colorize))
		case dep.Optional:
			lines = append(lines, renderStatusLine(dep.Name, statusInfo, dep.Detail, colorize))
		default:
			lines = append(lines, renderStatusLine(dep.Name, statusError, dep.Detail, colorize))
		}
	}
	publish := "Disabled"
	kind := statusInfo
	if cfg.Publish.Enabled {
		publish = "s3://" + strings.TrimSuffix(cfg.Publish.Bucket+"/"+cfg.Publish.Prefix, "/")
		kind = statusOK
	}
	lines = append(lines, renderStatusLine("Publish", kind, publish, colorize))
	return lines
}

func stageHealthLines(health map[string]stage.Health, colorize bool) []string {
	names := make([]string, 0, len(health))
	for name := range health {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		h := health[name]
		kind, detail := statusOK, "ready"
		if !h.Ready {
			kind, detail = statusError, h.Detail
		}
		lines = append(lines, renderStatusLine(h.Name, kind, detail, colorize))
	}
	return lines
}
