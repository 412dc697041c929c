// Package segmentation implements the segmenting stage: it loads an entry's
// vocals WAV and first subtitle track and hands both to segment.Segmenter.
package segmentation
