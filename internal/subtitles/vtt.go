package subtitles

import "strings"

// parseVTT reads a WebVTT document. NOTE, STYLE and REGION blocks are
// skipped; cue identifiers and cue settings are ignored.
func parseVTT(lines []string) ([]Cue, error) {
	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	if first == len(lines) || !isVTTSignature(lines[first]) {
		return nil, parseErrorf(first+1, "missing WEBVTT header")
	}

	// The header block runs until the first blank line.
	i := first + 1
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		if strings.Contains(lines[i], "-->") {
			return nil, parseErrorf(i+1, "cue inside WEBVTT header block")
		}
		i++
	}

	cues := make([]Cue, 0, len(lines)/4)
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		blockStart := i
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			i++
		}
		block := lines[blockStart:i]
		if isVTTMetadataBlock(block[0]) {
			continue
		}

		timing := 0
		if !strings.Contains(block[0], "-->") {
			timing = 1
		}
		if timing >= len(block) || !strings.Contains(block[timing], "-->") {
			return nil, parseErrorf(blockStart+1, "expected cue timing line")
		}
		start, end, err := parseTimingLine(block[timing])
		if err != nil {
			return nil, parseErrorf(blockStart+timing+1, "%v", err)
		}
		cues = append(cues, Cue{
			StartMS: start,
			EndMS:   end,
			Text:    plainText(strings.Join(block[timing+1:], "\n"), FormatVTT),
		})
	}
	return cues, nil
}

func isVTTSignature(line string) bool {
	line = strings.TrimPrefix(line, "\ufeff")
	if !strings.HasPrefix(line, "WEBVTT") {
		return false
	}
	rest := line[len("WEBVTT"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

func isVTTMetadataBlock(line string) bool {
	for _, keyword := range []string{"NOTE", "STYLE", "REGION"} {
		if line == keyword || strings.HasPrefix(line, keyword+" ") || strings.HasPrefix(line, keyword+"\t") {
			return true
		}
	}
	return false
}
