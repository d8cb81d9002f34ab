// Package testsignal generates the message and channel signals used to
// exercise the modem: sums of tones, constant-frequency carriers and AWGN.
package testsignal

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Tone is one cosine component of a message; Frequency is in cycles/sample.
type Tone struct {
	Frequency float64
	Amplitude float64
	Phase     float64
}

// ThreeTone is the reference message used by the demonstration driver.
var ThreeTone = []Tone{
	{Frequency: 0.013, Amplitude: 0.3, Phase: 0.0},
	{Frequency: 0.021, Amplitude: 0.2, Phase: 0.4},
	{Frequency: 0.037, Amplitude: 0.4, Phase: 1.7},
}

// MultiTone returns n samples of the sum of tones.
func MultiTone(n int, tones []Tone) []float64 {
	m := make([]float64, n)
	for i := range m {
		for _, t := range tones {
			m[i] += t.Amplitude * math.Cos(2*math.Pi*t.Frequency*float64(i)+t.Phase)
		}
	}
	return m
}

// Carrier returns n unit samples rotating omega radians per sample.
func Carrier(n int, omega float64) []complex128 {
	x := make([]complex128, n)
	for i := range x {
		x[i] = cmplx.Rect(1, omega*float64(i))
	}
	return x
}

// AddNoise adds complex white Gaussian noise to x in place. The noise power is
// 10^(-snrDB/10) relative to a unit carrier, split evenly between I and Q.
func AddNoise(x []complex128, snrDB float64, rng *rand.Rand) {
	nstd := math.Pow(10, -snrDB/20)
	noise := distuv.Normal{Mu: 0, Sigma: nstd * math.Sqrt2 / 2, Src: rng}
	for i := range x {
		x[i] += complex(noise.Rand(), noise.Rand())
	}
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
