// Package subtitles reads subtitle tracks into ordered timing cues.
//
// WebVTT, SubRip and ASS/SSA documents are supported. Format is chosen by
// file extension with content sniffing as a fallback. Cue text is stripped of
// markup and flattened to a single line; cues are returned in document order
// without sorting or validation of their time ranges.
package subtitles
