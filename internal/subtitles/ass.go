package subtitles

import (
	"strings"
)

// Default [Events] column order when a document omits its Format line.
var defaultASSFields = []string{"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text"}

// parseASS reads Dialogue lines from the [Events] section. Comment lines and
// every other section are ignored.
func parseASS(lines []string) ([]Cue, error) {
	inEvents := false
	sawEvents := false
	fields := defaultASSFields
	cues := make([]Cue, 0, len(lines)/2)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inEvents = strings.EqualFold(line, "[Events]")
			sawEvents = sawEvents || inEvents
			continue
		}
		if !inEvents || line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Format":
			fields = parseASSFormat(value)
			if indexOf(fields, "start") < 0 || indexOf(fields, "end") < 0 || fields[len(fields)-1] != "text" {
				return nil, parseErrorf(i+1, "unsupported events format %q", strings.TrimSpace(value))
			}
		case "Dialogue":
			parts := strings.SplitN(strings.TrimLeft(value, " "), ",", len(fields))
			if len(parts) != len(fields) {
				return nil, parseErrorf(i+1, "dialogue has %d fields, want %d", len(parts), len(fields))
			}
			start, err := parseTimestamp(parts[indexOf(fields, "start")])
			if err != nil {
				return nil, parseErrorf(i+1, "start: %v", err)
			}
			end, err := parseTimestamp(parts[indexOf(fields, "end")])
			if err != nil {
				return nil, parseErrorf(i+1, "end: %v", err)
			}
			cues = append(cues, Cue{
				StartMS: start,
				EndMS:   end,
				Text:    plainText(parts[len(parts)-1], FormatASS),
			})
		}
	}
	if !sawEvents {
		return nil, parseErrorf(0, "no [Events] section")
	}
	return cues, nil
}

func parseASSFormat(value string) []string {
	raw := strings.Split(value, ",")
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, strings.ToLower(strings.TrimSpace(f)))
	}
	return fields
}

func indexOf(fields []string, name string) int {
	for i, f := range fields {
		if f == name {
			return i
		}
	}
	return -1
}
