// Package preflight provides readiness checks for the filesystem paths and
// external executables the batch depends on.
//
// The workflow manager calls RunAll before processing a catalog. Only an
// unusable segments directory stops the batch; every other failure is logged
// as a warning because it affects individual entries at most. The CLI
// "teasers status" command renders the same results.
package preflight
