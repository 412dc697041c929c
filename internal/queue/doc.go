// Package queue persists the per-entry run ledger in SQLite.
//
// Each catalog entry owns exactly one row keyed by its filename. A batch run
// resets every row it is about to process to pending, then the workflow
// manager records each stage transition, the cue and segment counts, and the
// classified failure when a stage aborts. The ledger reports what happened on
// the last run; it never drives resumption, which is decided from the files
// on disk.
//
// Schema changes bump the version in schema.go; users delete ledger.db to
// adopt the new schema.
package queue
