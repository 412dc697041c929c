// Package logging assembles structured slog loggers and formatting helpers used
// across teasers.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code tags log lines
// with the catalog entry, stage and batch run ID. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
