package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// field is one flattened key=value pair; group names are joined with dots.
type field struct {
	key   string
	value slog.Value
}

// consoleHandler renders one line per record:
//
//	2026-01-02 15:04:05.000 INFO segmenter: talk (segmenting) wrote clip index=3
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     *slog.LevelVar
	prefix    string
	preset    []field
	addSource bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, out: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}
	fields := slices.Clone(h.preset)
	record.Attrs(func(attr slog.Attr) bool {
		fields = flatten(fields, h.prefix, attr)
		return true
	})
	fields = lastWins(fields)

	var component, entry, stage string
	extras := fields[:0]
	for _, f := range fields {
		switch {
		case f.key == FieldComponent:
			component = plainValue(f.value)
		case f.key == FieldEntry:
			entry = plainValue(f.value)
		case f.key == FieldStage:
			stage = plainValue(f.value)
		case f.key == FieldCorrelationID && record.Level == slog.LevelInfo:
		default:
			extras = append(extras, f)
		}
	}

	var b strings.Builder
	b.WriteString(consoleTime(record.Time))
	b.WriteString(" " + levelLabel(record.Level))
	if component != "" {
		b.WriteString(" " + component + ":")
	}
	if subject := FormatSubject(entry, stage); subject != "" {
		b.WriteString(" " + subject)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" " + msg)
	if src := record.Source(); h.addSource && src != nil {
		b.WriteString(" (" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + ")")
	}
	for _, f := range extras {
		b.WriteString(" " + f.key + "=" + quotedValue(f.value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = slices.Clone(h.preset)
	for _, attr := range attrs {
		next.preset = flatten(next.preset, h.prefix, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = joinKey(h.prefix, name)
	return &next
}

// FormatSubject returns "entry (stage)", or whichever half is set.
func FormatSubject(entry, stage string) string {
	entry, stage = strings.TrimSpace(entry), strings.TrimSpace(stage)
	if entry != "" && stage != "" {
		return entry + " (" + stage + ")"
	}
	return entry + stage
}

func flatten(dst []field, prefix string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() != slog.KindGroup {
		if attr.Key == "" {
			return dst
		}
		return append(dst, field{key: joinKey(prefix, attr.Key), value: attr.Value})
	}
	inner := prefix
	if attr.Key != "" {
		inner = joinKey(prefix, attr.Key)
	}
	for _, nested := range attr.Value.Group() {
		dst = flatten(dst, inner, nested)
	}
	return dst
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// lastWins drops earlier duplicates of a key, keeping first-seen order.
func lastWins(fields []field) []field {
	pos := make(map[string]int, len(fields))
	for i, f := range fields {
		pos[f.key] = i
	}
	out := make([]field, 0, len(pos))
	for i, f := range fields {
		if pos[f.key] == i {
			out = append(out, f)
		}
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
