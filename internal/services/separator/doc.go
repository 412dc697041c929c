// Package separator wraps the audio-separator CLI used for vocal isolation.
//
// A run writes every stem into a scratch directory and returns the paths it
// produced. Callers pick the vocal stem with VocalStem and are responsible for
// discarding the rest.
package separator
