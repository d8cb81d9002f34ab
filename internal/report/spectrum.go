package report

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

const psdFloor = -200.0

// ComplexPSD returns the Hamming-windowed power spectrum of x in dB over nfft
// bins, shifted so that bin 0 is -0.5 cycles/sample.
func ComplexPSD(x []complex128, nfft int) []float64 {
	n := min(len(x), nfft)
	w := window.Hamming(n)
	g := gain(w)

	buf := make([]complex128, nfft)
	for i := 0; i < n; i++ {
		buf[i] = x[i] * complex(w[i]*g, 0)
	}
	X := fft.FFT(buf)

	psd := make([]float64, nfft)
	for i := range X {
		psd[(i+nfft/2)%nfft] = db(cmplx.Abs(X[i]))
	}
	return psd
}

// RealPSD returns the Hamming-windowed one-sided power spectrum of x in dB,
// nfft/2+1 bins from 0 to 0.5 cycles/sample.
func RealPSD(x []float64, nfft int) []float64 {
	n := min(len(x), nfft)
	w := window.Hamming(n)
	g := gain(w)

	buf := make([]float64, nfft)
	for i := 0; i < n; i++ {
		buf[i] = x[i] * w[i] * g
	}
	coeffs := fourier.NewFFT(nfft).Coefficients(nil, buf)

	psd := make([]float64, len(coeffs))
	for i, c := range coeffs {
		psd[i] = db(cmplx.Abs(c))
	}
	return psd
}

// Peaks holds the frequency, in cycles per sample, of the strongest component
// of each signal in a run.
type Peaks struct {
	Message  float64
	Output   float64
	Received float64 // two-sided, in [-0.5, 0.5)
}

// FindPeaks locates the spectral peaks of run over nfft bins.
func FindPeaks(run Run, nfft int) Peaks {
	n := float64(nfft)
	return Peaks{
		Message:  float64(PeakBin(RealPSD(run.Message, nfft))) / n,
		Output:   float64(PeakBin(RealPSD(run.Output, nfft))) / n,
		Received: float64(PeakBin(ComplexPSD(run.Received, nfft))-nfft/2) / n,
	}
}

// Shifted reports whether the output peak lies more than one bin of nfft
// away from the message peak.
func (p Peaks) Shifted(nfft int) bool {
	return math.Abs(p.Message-p.Output) > 1.5/float64(nfft)
}

// PeakBin returns the index of the largest bin in psd.
func PeakBin(psd []float64) int {
	best := 0
	for i, v := range psd {
		if v > psd[best] {
			best = i
		}
	}
	return best
}

// NextPow2 returns the smallest power of two not less than n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// gain normalizes the window so a full-scale tone reads 0 dB.
func gain(w []float64) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		return 0
	}
	return 1 / sum
}

func db(mag float64) float64 {
	if mag <= 0 {
		return psdFloor
	}
	return math.Max(20*math.Log10(mag), psdFloor)
}
