package subtitles

import (
	"fmt"
	"path/filepath"
	"strings"

	"teasers/internal/services"
)

// Cue is one timed subtitle entry. Offsets are milliseconds from the start
// of the track.
type Cue struct {
	StartMS int64
	EndMS   int64
	Text    string
}

// DurationMS returns EndMS - StartMS.
func (c Cue) DurationMS() int64 {
	return c.EndMS - c.StartMS
}

// Format identifies a subtitle document syntax.
type Format string

const (
	FormatUnknown Format = ""
	FormatVTT     Format = "vtt"
	FormatSRT     Format = "srt"
	FormatASS     Format = "ass"
)

// DetectFormat picks a format from the path extension, falling back to the
// leading bytes of content.
func DetectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		return FormatVTT
	case ".srt":
		return FormatSRT
	case ".ass", ".ssa":
		return FormatASS
	}
	head := strings.TrimSpace(strings.TrimPrefix(string(content), "\ufeff"))
	switch {
	case strings.HasPrefix(head, "WEBVTT"):
		return FormatVTT
	case strings.HasPrefix(head, "[Script Info]"):
		return FormatASS
	case strings.Contains(head, "-->"):
		return FormatSRT
	}
	return FormatUnknown
}

// ParseError describes a malformed subtitle document. It matches
// services.ErrSubtitleParse under errors.Is.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "subtitle"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", loc, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return services.ErrSubtitleParse
}

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
