// Package workflow runs a catalog batch through the processing stages.
//
// The Manager takes the run lock, stamps a run ID, and walks the catalog
// entries one at a time. Each entry is recorded in the run ledger, skips
// vocal isolation when a previous run already produced the vocals file, and
// is then segmented and optionally published. A failure in one entry is
// recorded against that entry and the batch moves on to the next.
package workflow
