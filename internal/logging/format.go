package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// consoleTimeLayout renders local wall time with milliseconds so clips
// written within one second stay ordered in the console.
const consoleTimeLayout = "2006-01-02 15:04:05.000"

func consoleTime(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Local().Format(consoleTimeLayout)
}

// plainValue renders v without quoting, for the subject prefix.
func plainValue(v slog.Value) string {
	return valueText(v.Resolve())
}

// quotedValue renders v for a key=value pair, quoting when the text would be
// ambiguous on the console line.
func quotedValue(v slog.Value) string {
	text := valueText(v.Resolve())
	if needsQuoting(text) {
		return strconv.Quote(text)
	}
	return text
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return consoleTime(v.Time())
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		default:
			return fmt.Sprint(x)
		}
	default:
		return v.String()
	}
}

func needsQuoting(s string) bool {
	return s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	})
}
