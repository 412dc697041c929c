package audio

import "fmt"

// TargetFrames reports how many frames resampling n frames from rate to
// target produces: round(n * target / rate), halves rounded up.
func TargetFrames(n, rate, target int) int {
	if n <= 0 || rate <= 0 || target <= 0 {
		return 0
	}
	num := 2*int64(n)*int64(target) + int64(rate)
	return int(num / (2 * int64(rate)))
}

// Resample downmixes w to mono and converts it to target Hz. When the rate
// already matches, the mono waveform is returned without touching samples.
//
// Conversion works in the frequency domain: the real spectrum is truncated
// or zero-padded to the new length, the Nyquist bin is split or joined when
// the shorter length is even, and the inverse transform is scaled by M/N.
func Resample(w Waveform, target int) (Waveform, error) {
	if target <= 0 {
		return Waveform{}, fmt.Errorf("resample: invalid target rate %d", target)
	}
	if w.SampleRate <= 0 {
		return Waveform{}, fmt.Errorf("resample: invalid source rate %d", w.SampleRate)
	}
	mono := Downmix(w)
	if mono.SampleRate == target {
		return mono, nil
	}
	num := TargetFrames(len(mono.Samples), mono.SampleRate, target)
	return Waveform{
		Samples:    resampleFFT(mono.Samples, num),
		Channels:   1,
		SampleRate: target,
		BitDepth:   mono.BitDepth,
	}, nil
}

func resampleFFT(x []float64, num int) []float64 {
	nx := len(x)
	if nx == 0 || num <= 0 {
		return []float64{}
	}

	spectrum := realSpectrum(x)

	out := make([]complex128, num/2+1)
	n := min(num, nx)
	copy(out, spectrum[:n/2+1])
	if n%2 == 0 {
		switch {
		case num < nx:
			out[n/2] *= 2
		case nx < num:
			out[n/2] *= 0.5
		}
	}

	// Sequence is unnormalized, so dividing by nx applies both the inverse
	// 1/num factor and the num/nx amplitude correction.
	y := realSequence(out, num)
	scale := 1 / float64(nx)
	for i := range y {
		y[i] *= scale
	}
	return y
}
