package dsp

import (
	"fmt"
	"io"
	"math"

	"go-freqdem/internal/fpm"
)

// FreqMod is a phase-integrating FM modulator, the counterpart of FreqDem.
type FreqMod[T, C any, F fpm.Format[T, C]] struct {
	num     F
	kf      float64
	twopikf T // 2*pi*kf
	theta   T
}

type (
	FloatFreqMod = FreqMod[float32, complex64, fpm.Float]
	Q16FreqMod   = FreqMod[fpm.Q16, fpm.CQ16, fpm.Fixed]
)

// NewFreqMod creates a modulator for modulation factor kf in (0, 1].
func NewFreqMod[T, C any, F fpm.Format[T, C]](kf float64) (*FreqMod[T, C, F], error) {
	if err := validateModulationFactor(kf); err != nil {
		return nil, err
	}
	q := &FreqMod[T, C, F]{kf: kf}
	q.twopikf = q.num.FromFloat(2 * math.Pi * kf)
	return q, nil
}

// NewFloatFreqMod creates a floating point modulator.
func NewFloatFreqMod(kf float64) (*FloatFreqMod, error) {
	return NewFreqMod[float32, complex64, fpm.Float](kf)
}

// NewQ16FreqMod creates a Q16 fixed-point modulator.
func NewQ16FreqMod(kf float64) (*Q16FreqMod, error) {
	return NewFreqMod[fpm.Q16, fpm.CQ16, fpm.Fixed](kf)
}

// Reset returns the carrier phase to zero.
func (q *FreqMod[T, C, F]) Reset() {
	var zero T
	q.theta = zero
}

// Modulate advances the carrier phase by 2*pi*kf*m and returns the carrier.
func (q *FreqMod[T, C, F]) Modulate(m T) C {
	q.theta = q.num.WrapPhase(q.num.Add(q.theta, q.num.Mul(q.twopikf, m)))
	return q.num.Expj(q.theta)
}

// ModulateBlock modulates m into s and returns the number of samples
// processed.
func (q *FreqMod[T, C, F]) ModulateBlock(m []T, s []C) int {
	n := min(len(m), len(s))
	for i := 0; i < n; i++ {
		s[i] = q.Modulate(m[i])
	}
	return n
}

// Print writes a short description of the modulator to w.
func (q *FreqMod[T, C, F]) Print(w io.Writer) {
	fmt.Fprintf(w, "freqmod:\n")
	fmt.Fprintf(w, "    mod. factor :   %8.4f\n", q.kf)
}
