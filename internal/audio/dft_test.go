package audio

import (
	"math"
	"math/cmplx"
	"testing"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
)

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n/2+1)
	for k := range out {
		for j, v := range x {
			out[k] += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(j*k)/float64(n)))
		}
	}
	return out
}

func testSignal(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(0.37*float64(i)) + 0.2*math.Cos(1.9*float64(i)) + 0.05*float64(i%7)
	}
	return x
}

func TestSmoothLength(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{1, true}, {16000, true}, {44100 * 3, false}, {441, false}, {200003, false}, {0, false},
	}
	for _, tt := range tests {
		if got := smoothLength(tt.n); got != tt.want {
			t.Fatalf("smoothLength(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestRealSpectrumMatchesDirectDFT(t *testing.T) {
	for _, n := range []int{7, 17, 31, 98} {
		x := testSignal(n)
		got := realSpectrum(x)
		want := naiveDFT(x)
		if len(got) != len(want) {
			t.Fatalf("n=%d: %d bins, want %d", n, len(got), len(want))
		}
		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9 {
				t.Fatalf("n=%d bin %d = %v, want %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestRealSequenceMatchesGonum(t *testing.T) {
	// 14 has a factor of 7, so realSequence takes the chirp path while
	// gonum's generic radix pass serves as the reference.
	const n = 14
	coeffs := fourier.NewFFT(n).Coefficients(nil, testSignal(n))
	want := fourier.NewFFT(n).Sequence(nil, coeffs)
	full := realSequence(coeffs, n)
	for i := range want {
		if math.Abs(full[i]-want[i]) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, full[i], want[i])
		}
	}
}

func TestResamplePrimeLengthIsFast(t *testing.T) {
	const n = 200003
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.25
	}
	start := time.Now()
	got, err := Resample(Waveform{Samples: samples, Channels: 1, SampleRate: 44100}, 16000)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("resampling %d frames took %v", n, elapsed)
	}
	if want := TargetFrames(n, 44100, 16000); len(got.Samples) != want {
		t.Fatalf("frames = %d, want %d", len(got.Samples), want)
	}
	for _, i := range []int{0, len(got.Samples) / 2, len(got.Samples) - 1} {
		if math.Abs(got.Samples[i]-0.25) > 1e-6 {
			t.Fatalf("sample %d = %v, want 0.25", i, got.Samples[i])
		}
	}
}
