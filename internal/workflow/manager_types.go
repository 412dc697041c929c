package workflow

import (
	"teasers/internal/queue"
	"teasers/internal/stage"
)

// StageSet bundles the concrete stage handlers the manager orchestrates.
// Publishing is optional.
type StageSet struct {
	Isolation    stage.Handler
	Segmentation stage.Handler
	Publishing   stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	processingStatus queue.Status
	doneStatus       queue.Status
}

// stages returns the ordered pipeline. Segmentation finishes the entry
// unless publishing follows it.
func (s StageSet) stages() []pipelineStage {
	segmentedStatus := queue.StatusDone
	if s.Publishing != nil {
		segmentedStatus = queue.StatusSegmented
	}
	out := []pipelineStage{
		{
			name:             "isolating",
			handler:          s.Isolation,
			processingStatus: queue.StatusIsolating,
			doneStatus:       queue.StatusIsolated,
		},
		{
			name:             "segmenting",
			handler:          s.Segmentation,
			processingStatus: queue.StatusSegmenting,
			doneStatus:       segmentedStatus,
		},
	}
	if s.Publishing != nil {
		out = append(out, pipelineStage{
			name:             "publishing",
			handler:          s.Publishing,
			processingStatus: queue.StatusPublishing,
			doneStatus:       queue.StatusDone,
		})
	}
	return out
}

// EntryResult is the outcome of one catalog entry.
type EntryResult struct {
	Filename         string
	Status           queue.Status
	IsolationSkipped bool
	Segments         int
	Err              error
}

// Summary reports a finished batch.
type Summary struct {
	RunID   string
	Total   int
	Done    int
	Failed  int
	Skipped int
	Entries []EntryResult
}

// FailedEntries returns the results that ended in failure.
func (s Summary) FailedEntries() []EntryResult {
	var failed []EntryResult
	for _, result := range s.Entries {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}
