// Package dsp contains the building blocks of the receive chain: filter design,
// FIR and IIR filters, the numerically-controlled oscillator and the FM
// modulator/demodulator pair. The per-sample objects are generic over an
// fpm.Format so the same code runs in floating point and in Q16.
package dsp

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
)

// DesignFIRLowPass creates a low-pass FIR filter using the windowed-sinc method.
func DesignFIRLowPass(numTaps int, cutoff float64) []float64 {
	taps := make([]float64, numTaps)
	M := float64(numTaps - 1)
	// The cutoff frequency must be normalized to the Nyquist frequency (0.5 * sample_rate)
	fc := cutoff * 2
	for n := 0; n < numTaps; n++ {
		taps[n] = fc * sinc(fc*(float64(n)-M/2))
	}
	window.Apply(taps, window.Hamming)
	normalize(taps)
	return taps
}

// DesignKaiser creates a low-pass FIR filter of length n with a Kaiser window.
// fc is the cutoff in cycles per sample (0, 0.5], as the stopband attenuation
// in dB and mu a fractional sample offset in [-0.5, 0.5].
func DesignKaiser(n int, fc, as, mu float64) ([]float64, error) {
	switch {
	case n < 1:
		return nil, fmt.Errorf("%w: kaiser filter length %d must be positive", ErrInvalidParameter, n)
	case !(fc > 0 && fc <= 0.5):
		return nil, fmt.Errorf("%w: kaiser cutoff %g out of range (0, 0.5]", ErrInvalidParameter, fc)
	case mu < -0.5 || mu > 0.5:
		return nil, fmt.Errorf("%w: kaiser offset %g out of range [-0.5, 0.5]", ErrInvalidParameter, mu)
	}

	beta := KaiserBeta(as)
	taps := make([]float64, n)
	for i := range taps {
		t := float64(i) - float64(n-1)/2 + mu
		taps[i] = sinc(2*fc*t) * kaiser(t, n, beta)
	}
	normalize(taps)
	return taps, nil
}

// KaiserBeta returns the Kaiser window shape parameter for a stopband
// attenuation of as dB.
func KaiserBeta(as float64) float64 {
	as = math.Abs(as)
	switch {
	case as > 50:
		return 0.1102 * (as - 8.7)
	case as > 21:
		return 0.5842*math.Pow(as-21, 0.4) + 0.07886*(as-21)
	default:
		return 0
	}
}

// kaiser evaluates the window at offset t from the center of an n-tap filter.
func kaiser(t float64, n int, beta float64) float64 {
	r := 2 * t / float64(n)
	if r <= -1 || r >= 1 {
		return 0
	}
	return besselI0(beta*math.Sqrt(1-r*r)) / besselI0(beta)
}

// besselI0 is the modified Bessel function of the first kind, order zero.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	half := x / 2
	for k := 1; k < 64; k++ {
		term *= half / float64(k)
		t2 := term * term
		sum += t2
		if t2 < sum*1e-16 {
			break
		}
	}
	return sum
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// normalize scales taps for unity gain at DC.
func normalize(taps []float64) {
	sum := 0.0
	for _, t := range taps {
		sum += t
	}
	for i := range taps {
		taps[i] /= sum
	}
}

// Resample changes the sample rate of a signal using a windowed-sinc function.
func Resample(input []float32, ratio float64) []float32 {
	const windowSize = 16 // Number of taps on each side of the sample.

	outputLen := int(float64(len(input)) * ratio)
	if outputLen == 0 {
		return nil
	}
	output := make([]float32, outputLen)
	invRatio := 1.0 / ratio
	hamming := window.Hamming(2*windowSize + 1)

	for i := range output {
		inPos := float64(i) * invRatio
		centerIndex := int(math.Round(inPos))

		var acc, sumTaps float32
		for j := -windowSize; j < windowSize; j++ {
			inputIndex := centerIndex + j
			if inputIndex < 0 || inputIndex >= len(input) {
				continue
			}

			tap := float32(sinc(inPos-float64(inputIndex)) * hamming[j+windowSize])

			acc += input[inputIndex] * tap
			sumTaps += tap
		}
		if sumTaps != 0 {
			output[i] = acc / sumTaps
		}
	}
	return output
}
