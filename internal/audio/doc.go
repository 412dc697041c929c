// Package audio holds the in-memory waveform model plus WAV I/O and the
// FFT-based resampler used to bring vocal stems to the dataset sample rate.
package audio
