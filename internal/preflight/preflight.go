package preflight

import (
	"teasers/internal/config"
)

// Check names used by RunAll.
const (
	NameDataDir     = "Data directory"
	NameSegmentsDir = "Segments directory"
	NameLogDir      = "Log directory"
	NameFreeSpace   = "Segments free space"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory and free-space checks for cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess(NameDataDir, cfg.Paths.DataDir),
		CheckDirectoryAccess(NameSegmentsDir, cfg.Paths.SegmentsDir),
		CheckDirectoryAccess(NameLogDir, cfg.Paths.LogDir),
	}
	if results[1].Passed {
		results = append(results, CheckFreeSpace(NameFreeSpace, cfg.Paths.SegmentsDir, MinFreeBytes))
	}
	return results
}

// Blocking returns the first failed result that must stop the batch.
func Blocking(results []Result) (Result, bool) {
	for _, result := range results {
		if !result.Passed && result.Name == NameSegmentsDir {
			return result, true
		}
	}
	return Result{}, false
}
