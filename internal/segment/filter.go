package segment

import (
	"strings"

	"teasers/internal/subtitles"
)

// Reason explains why a cue was rejected.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonTooShort         Reason = "too_short"
	ReasonMultipleSpeakers Reason = "multiple_speakers"
)

// MinDurationMS is the exclusive lower bound on cue length.
const MinDurationMS = 1000

// Verdict is the outcome of Accept.
type Verdict struct {
	Accepted bool
	Reason   Reason
}

// Accept reports whether cue qualifies as a training segment: it must last
// strictly longer than one second and carry at most one dash, since two or
// more dashes usually mark dialogue turns.
func Accept(cue subtitles.Cue) Verdict {
	if cue.EndMS-cue.StartMS <= MinDurationMS {
		return Verdict{Reason: ReasonTooShort}
	}
	if MultipleSpeakers(cue.Text) {
		return Verdict{Reason: ReasonMultipleSpeakers}
	}
	return Verdict{Accepted: true}
}

// MultipleSpeakers reports whether text contains more than one '-'.
func MultipleSpeakers(text string) bool {
	return strings.Count(text, "-") > 1
}
