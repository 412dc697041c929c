package audio

import "time"

// DefaultBitDepth is used when a waveform does not record its source depth.
const DefaultBitDepth = 16

// Waveform is a block of PCM audio normalized to [-1, 1]. Samples are
// interleaved when Channels > 1.
type Waveform struct {
	Samples    []float64
	Channels   int
	SampleRate int
	BitDepth   int
}

// Frames reports the number of sample frames (samples per channel).
func (w Waveform) Frames() int {
	ch := w.channels()
	return len(w.Samples) / ch
}

// Duration reports the playback length of the waveform.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(w.Frames()) / float64(w.SampleRate) * float64(time.Second))
}

// Slice returns frames [start, end) clamped to the waveform bounds. Ranges
// past the end yield a short or empty waveform rather than an error. The
// returned samples share memory with w.
func (w Waveform) Slice(start, end int) Waveform {
	frames := w.Frames()
	start = clamp(start, 0, frames)
	end = clamp(end, start, frames)
	ch := w.channels()
	out := w
	out.Samples = w.Samples[start*ch : end*ch]
	return out
}

// Downmix averages all channels into one. Mono input is returned as is.
func Downmix(w Waveform) Waveform {
	ch := w.channels()
	if ch == 1 {
		w.Channels = 1
		return w
	}
	frames := len(w.Samples) / ch
	mono := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range ch {
			sum += w.Samples[i*ch+c]
		}
		mono[i] = sum / float64(ch)
	}
	return Waveform{
		Samples:    mono,
		Channels:   1,
		SampleRate: w.SampleRate,
		BitDepth:   w.BitDepth,
	}
}

func (w Waveform) channels() int {
	if w.Channels < 1 {
		return 1
	}
	return w.Channels
}

func (w Waveform) bitDepth() int {
	if w.BitDepth <= 0 {
		return DefaultBitDepth
	}
	return w.BitDepth
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
