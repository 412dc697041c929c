// Package isolation implements the vocal isolation stage: it runs the source
// separator on an entry's raw audio, keeps the vocal stem as the entry's
// canonical vocals WAV (resampled to the configured rate) and discards every
// other stem.
package isolation
