package dsp

import (
	"math"

	"go-freqdem/internal/fpm"
)

const defaultPLLBandwidth = 0.1

// NCO is a numerically-controlled oscillator with a second-order phase-locked
// loop. Phase and frequency are in radians and radians per sample.
type NCO[T, C any, F fpm.Format[T, C]] struct {
	num    F
	theta  T // phase
	dtheta T // frequency

	alpha T // frequency gain of the loop
	beta  T // phase gain of the loop
}

// NewNCO creates an oscillator at zero phase and frequency.
func NewNCO[T, C any, F fpm.Format[T, C]]() *NCO[T, C, F] {
	o := &NCO[T, C, F]{}
	o.SetPLLBandwidth(defaultPLLBandwidth)
	return o
}

// Reset zeroes phase and frequency. Loop gains are kept.
func (o *NCO[T, C, F]) Reset() {
	var zero T
	o.theta, o.dtheta = zero, zero
}

// SetPLLBandwidth sets the loop bandwidth. Wider loops acquire faster and
// track less smoothly.
func (o *NCO[T, C, F]) SetPLLBandwidth(bw float64) {
	o.alpha = o.num.FromFloat(bw)
	o.beta = o.num.FromFloat(math.Sqrt(bw))
}

// Phasor returns exp(j*theta) for the current phase.
func (o *NCO[T, C, F]) Phasor() C {
	return o.num.Expj(o.theta)
}

// PLLStep advances the loop filter with a phase error in radians.
func (o *NCO[T, C, F]) PLLStep(phaseError T) {
	o.dtheta = o.num.Add(o.dtheta, o.num.Mul(o.alpha, phaseError))
	o.theta = o.num.WrapPhase(o.num.Add(o.theta, o.num.Mul(o.beta, phaseError)))
}

// Step advances the phase by one sample at the current frequency.
func (o *NCO[T, C, F]) Step() {
	o.theta = o.num.WrapPhase(o.num.Add(o.theta, o.dtheta))
}

func (o *NCO[T, C, F]) Frequency() T {
	return o.dtheta
}

func (o *NCO[T, C, F]) SetFrequency(dtheta T) {
	o.dtheta = dtheta
}

func (o *NCO[T, C, F]) Phase() T {
	return o.theta
}

func (o *NCO[T, C, F]) SetPhase(theta T) {
	o.theta = o.num.WrapPhase(theta)
}
