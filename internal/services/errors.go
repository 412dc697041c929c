package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCatalogLoad     = errors.New("catalog load error")
	ErrEntryIO         = errors.New("entry io error")
	ErrSeparation      = errors.New("separation error")
	ErrSubtitleParse   = errors.New("subtitle parse error")
	ErrFilesystemWrite = errors.New("filesystem write error")
	ErrExternalTool    = errors.New("external tool error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
	ErrTransient       = errors.New("transient failure")
)

// errorKinds is ordered so the most specific marker wins when an error chain
// carries several.
var errorKinds = []struct {
	marker error
	kind   string
}{
	{ErrCatalogLoad, "catalog_load"},
	{ErrEntryIO, "entry_io"},
	{ErrSeparation, "separation"},
	{ErrSubtitleParse, "subtitle_parse"},
	{ErrFilesystemWrite, "filesystem_write"},
	{ErrExternalTool, "external_tool"},
	{ErrValidation, "validation"},
	{ErrConfiguration, "configuration"},
	{ErrNotFound, "not_found"},
	{ErrTransient, "transient"},
}

// StageError carries the stage context recorded by Wrap so logs and the run
// ledger can report a failure without re-parsing the message.
type StageError struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Cause     error
}

func (e *StageError) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Marker, detail, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Marker, detail)
}

// Unwrap exposes both the marker and the cause to errors.Is / errors.As.
func (e *StageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Cause}
}

// ErrorKind reports the snake_case classification of the marker.
func (e *StageError) ErrorKind() string {
	return Kind(e.Marker)
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &StageError{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Cause:     err,
	}
}

// ErrorDetails summarizes a wrapped failure for structured logging.
type ErrorDetails struct {
	Kind      string
	Stage     string
	Operation string
	Message   string
	Cause     string
}

// Details extracts the outermost StageError context from err. Errors that were
// never wrapped still report a kind derived from any marker they carry.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		details := ErrorDetails{
			Kind:      stageErr.ErrorKind(),
			Stage:     stageErr.Stage,
			Operation: stageErr.Operation,
			Message:   stageErr.Message,
		}
		if stageErr.Cause != nil {
			details.Cause = stageErr.Cause.Error()
		}
		return details
	}
	return ErrorDetails{Kind: Kind(err), Message: err.Error()}
}

// Kind maps err onto the first sentinel it matches.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorKinds {
		if errors.Is(err, entry.marker) {
			return entry.kind
		}
	}
	return "unknown"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
