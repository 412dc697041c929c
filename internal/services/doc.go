// Package services defines shared utilities consumed by the workflow stage
// handlers and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp catalog entry names, stage names, and the
//     batch run identifier for logging.
//   - Structured error markers plus the Wrap helper so failures carry a stable
//     kind into logs and the run ledger.
//
// Subpackages wrap the external command-line tools (vocal separation and
// media download) behind injectable runners so they stay testable.
package services
