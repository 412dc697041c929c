package audio

import "fmt"

// ResampleFile reads src, resamples it to target and writes the result to
// dst when a conversion actually happened. The returned bool reports whether
// dst was written. Existence checks on dst are left to the caller.
func ResampleFile(src, dst string, target int) (Waveform, bool, error) {
	w, err := ReadFile(src)
	if err != nil {
		return Waveform{}, false, fmt.Errorf("resample %s: %w", src, err)
	}
	out, err := Resample(w, target)
	if err != nil {
		return Waveform{}, false, fmt.Errorf("resample %s: %w", src, err)
	}
	if w.SampleRate == target {
		return out, false, nil
	}
	if err := WriteFile(dst, out); err != nil {
		return Waveform{}, false, err
	}
	return out, true, nil
}
