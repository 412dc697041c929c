package subtitles

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)
	overridePattern    = regexp.MustCompile(`\{[^}]*\}`)
	assOverridePattern = regexp.MustCompile(`\{\\[^}]*\}`)
)

// plainText strips markup from raw cue text and joins its lines with single
// spaces.
func plainText(raw string, format Format) string {
	text := raw
	switch format {
	case FormatASS:
		text = overridePattern.ReplaceAllString(text, "")
		text = strings.ReplaceAll(text, `\N`, "\n")
		text = strings.ReplaceAll(text, `\n`, "\n")
		text = strings.ReplaceAll(text, `\h`, " ")
	default:
		text = htmlTagPattern.ReplaceAllString(text, "")
		text = assOverridePattern.ReplaceAllString(text, "")
		text = html.UnescapeString(text)
	}

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
