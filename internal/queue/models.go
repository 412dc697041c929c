package queue

import (
	"strings"
	"time"

	"teasers/internal/services"
)

// Status represents the lifecycle of a ledger entry within one run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusIsolating  Status = "isolating"
	StatusIsolated   Status = "isolated"
	StatusSegmenting Status = "segmenting"
	StatusSegmented  Status = "segmented"
	StatusPublishing Status = "publishing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusIsolating,
	StatusIsolated,
	StatusSegmenting,
	StatusSegmented,
	StatusPublishing,
	StatusDone,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusIsolating:  {},
	StatusSegmenting: {},
	StatusPublishing: {},
}

// Entry is one ledger row.
type Entry struct {
	Filename         string
	URL              string
	AudioPath        string
	SubtitlePath     string
	VocalsPath       string
	OutputDir        string
	Status           Status
	IsolationSkipped bool
	CuesTotal        int
	SegmentsTotal    int
	PublishedTotal   int
	ErrorStage       string
	ErrorKind        string
	ErrorMessage     string
	RunID            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Summary counts ledger rows by lifecycle bucket.
type Summary struct {
	Total      int
	Pending    int
	Processing int
	Done       int
	Failed     int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsProcessing reports whether the entry was left mid-stage.
func (e Entry) IsProcessing() bool {
	return IsProcessingStatus(e.Status)
}

// SetFailed marks the entry failed and records the classified cause.
func (e *Entry) SetFailed(stage string, err error) {
	e.Status = StatusFailed
	e.ErrorStage = stage
	if err == nil {
		e.ErrorKind = ""
		e.ErrorMessage = ""
		return
	}
	e.ErrorKind = services.Kind(err)
	e.ErrorMessage = err.Error()
}

// ClearFailure drops any failure recorded by an earlier run.
func (e *Entry) ClearFailure() {
	e.ErrorStage = ""
	e.ErrorKind = ""
	e.ErrorMessage = ""
}
