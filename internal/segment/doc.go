// Package segment turns subtitle cues into labeled training clips.
//
// Accept is the fixed per-cue policy. Segmenter applies it across a track,
// writes one WAV per accepted cue named after the cue's original position,
// and finishes with a segments.json manifest that lists exactly the clips on
// disk.
package segment
