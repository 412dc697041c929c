package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// smoothLength reports whether n factors into 2, 3 and 5 only. gonum's
// transforms have dedicated passes for those radices and fall back to an
// O(n*p) pass for any other prime factor p.
func smoothLength(n int) bool {
	if n <= 0 {
		return false
	}
	for _, p := range []int{2, 3, 5} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}

// realSpectrum returns the n/2+1 non-negative frequency bins of x.
func realSpectrum(x []float64) []complex128 {
	n := len(x)
	if smoothLength(n) {
		return fourier.NewFFT(n).Coefficients(nil, x)
	}
	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}
	return bluestein(seq, -1)[:n/2+1]
}

// realSequence is the unnormalized inverse of realSpectrum for a length-n
// signal. Imaginary parts of the DC and, for even n, Nyquist bins are
// ignored.
func realSequence(coeffs []complex128, n int) []float64 {
	if smoothLength(n) {
		return fourier.NewFFT(n).Sequence(nil, coeffs)
	}
	full := make([]complex128, n)
	copy(full, coeffs[:n/2+1])
	for k := 1; k < (n+1)/2; k++ {
		full[n-k] = cmplx.Conj(coeffs[k])
	}
	seq := bluestein(full, 1)
	out := make([]float64, n)
	for i, v := range seq {
		out[i] = real(v)
	}
	return out
}

// bluestein computes the length-n DFT of x with exponent sign (-1 forward,
// +1 unnormalized inverse) as a chirp convolution over a power-of-two FFT.
func bluestein(x []complex128, sign float64) []complex128 {
	n := len(x)
	m := 1
	for m < 2*n-1 {
		m <<= 1
	}

	chirp := make([]complex128, n)
	for k := range chirp {
		// k*k mod 2n keeps the phase argument small for long inputs.
		sq := (int64(k) * int64(k)) % (2 * int64(n))
		chirp[k] = cmplx.Exp(complex(0, sign*math.Pi*float64(sq)/float64(n)))
	}

	a := make([]complex128, m)
	for k, v := range x {
		a[k] = v * chirp[k]
	}
	b := make([]complex128, m)
	b[0] = cmplx.Conj(chirp[0])
	for k := 1; k < n; k++ {
		b[k] = cmplx.Conj(chirp[k])
		b[m-k] = b[k]
	}

	fft := fourier.NewCmplxFFT(m)
	fa := fft.Coefficients(nil, a)
	fb := fft.Coefficients(nil, b)
	for i := range fa {
		fa[i] *= fb[i]
	}
	conv := fft.Sequence(nil, fa)

	out := make([]complex128, n)
	scale := complex(1/float64(m), 0)
	for k := range out {
		out[k] = chirp[k] * conv[k] * scale
	}
	return out
}
