package subtitles

import "strings"

// parseSRT treats every line containing "-->" as the start of a cue. Text
// runs until the next timing line, minus trailing blank lines and the
// numeric index that precedes the next cue.
func parseSRT(lines []string) ([]Cue, error) {
	cues := make([]Cue, 0, len(lines)/4)
	var text []string
	open := false

	flush := func() {
		if !open {
			return
		}
		text = trimTrailingBlank(text)
		cues[len(cues)-1].Text = plainText(strings.Join(text, "\n"), FormatSRT)
		text = text[:0]
	}

	for i, line := range lines {
		if !strings.Contains(line, "-->") {
			if open {
				text = append(text, line)
			}
			continue
		}
		if open {
			text = dropIndexLine(trimTrailingBlank(text))
		}
		flush()
		start, end, err := parseTimingLine(line)
		if err != nil {
			return nil, parseErrorf(i+1, "%v", err)
		}
		cues = append(cues, Cue{StartMS: start, EndMS: end})
		open = true
	}
	flush()

	if len(cues) == 0 && strings.TrimSpace(strings.Join(lines, "")) != "" {
		return nil, parseErrorf(0, "no timing lines found")
	}
	return cues, nil
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func dropIndexLine(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	if last != "" && allDigits(last) {
		return lines[:len(lines)-1]
	}
	return lines
}
