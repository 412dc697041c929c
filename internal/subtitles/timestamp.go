package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// parseTimestamp accepts [H:]MM:SS followed by a '.' or ',' fraction of one
// to three digits. It covers SRT (00:00:01,500), WebVTT (01:02.250) and ASS
// (0:00:04.87) clocks.
func parseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, frac := value, ""
	if i := strings.LastIndexAny(value, ".,"); i >= 0 {
		clock, frac = value[:i], value[i+1:]
	}
	if len(frac) > 3 || !allDigits(frac) {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	fields := make([]int64, len(parts))
	for i, part := range parts {
		if part == "" || !allDigits(part) {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		fields[i] = n
	}
	var hours, minutes, seconds int64
	if len(fields) == 3 {
		hours, minutes, seconds = fields[0], fields[1], fields[2]
	} else {
		minutes, seconds = fields[0], fields[1]
	}
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var millis int64
	if frac != "" {
		padded := frac + strings.Repeat("0", 3-len(frac))
		millis, _ = strconv.ParseInt(padded, 10, 64)
	}
	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// parseTimingLine splits "start --> end [settings]" into offsets.
func parseTimingLine(line string) (int64, int64, error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing --> in timing line %q", line)
	}
	start, err := parseTimestamp(left)
	if err != nil {
		return 0, 0, err
	}
	endField := strings.TrimSpace(right)
	if i := strings.IndexAny(endField, " \t"); i >= 0 {
		endField = endField[:i]
	}
	end, err := parseTimestamp(endField)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
