package dsp

import (
	"math"

	"go-freqdem/internal/fpm"
)

// maxLeakShift bounds the extra feedback precision so that 2^shift stays
// representable in Q16.
const maxLeakShift = 13

// IIRFilter is a real first-order recursive filter
//
//	y[n] = b0*x[n] + b1*x[n-1] - a1*y[n-1]
//
// The feedback is evaluated as y[n-1] - (1+a1)*y[n-1]. The leak term is
// formed 2^shift times finer than T and its rounding error is carried to the
// next sample, so in fixed point a pole close to 1 still acts on outputs
// below one LSB/(1+a1).
type IIRFilter[T, C any, F fpm.Format[T, C]] struct {
	num      F
	b0, b1   T
	leak     T // (1+a1) * 2^shift
	down, up T // 2^-shift, 2^shift
	x1, y1   T
	residual T // leak rounding error, at the finer scale
}

// NewIIRFilter creates a first-order filter from feed-forward coefficients b
// and feedback coefficients a. Both are normalized by a[0].
func NewIIRFilter[T, C any, F fpm.Format[T, C]](b, a [2]float64) *IIRFilter[T, C, F] {
	f := &IIRFilter[T, C, F]{}
	f.b0 = f.num.FromFloat(b[0] / a[0])
	f.b1 = f.num.FromFloat(b[1] / a[0])

	g := 1 + a[1]/a[0]
	shift := leakShift(g)
	f.leak = f.num.FromFloat(math.Ldexp(g, shift))
	f.down = f.num.FromFloat(math.Ldexp(1, -shift))
	f.up = f.num.FromFloat(math.Ldexp(1, shift))
	return f
}

// leakShift returns the largest shift in [0, maxLeakShift] that keeps
// |g|*2^shift at or below 1.
func leakShift(g float64) int {
	g = math.Abs(g)
	if g == 0 || g >= 1 || math.IsNaN(g) {
		return 0
	}
	return min(maxLeakShift, int(math.Floor(-math.Log2(g))))
}

// NewDCBlocker creates a filter removing the zero-frequency component, with a
// notch width set by alpha in (0, 1).
func NewDCBlocker[T, C any, F fpm.Format[T, C]](alpha float64) *IIRFilter[T, C, F] {
	return NewIIRFilter[T, C, F]([2]float64{1, -1}, [2]float64{1, -(1 - alpha)})
}

// NewDeemphasis creates a first-order low-pass FM de-emphasis filter.
// sampleRate is the audio sample rate.
// tau is the time constant (e.g., 50e-6 for Europe, 75e-6 for US).
func NewDeemphasis[T, C any, F fpm.Format[T, C]](sampleRate int, tau float64) *IIRFilter[T, C, F] {
	dt := 1.0 / float64(sampleRate)
	alpha := dt / (tau + dt)
	return NewIIRFilter[T, C, F]([2]float64{alpha, 0}, [2]float64{1, -(1 - alpha)})
}

// Reset clears the filter memory.
func (f *IIRFilter[T, C, F]) Reset() {
	var zero T
	f.x1, f.y1, f.residual = zero, zero, zero
}

// Execute filters a single sample.
func (f *IIRFilter[T, C, F]) Execute(x T) T {
	acc := f.num.Add(f.residual, f.num.Mul(f.leak, f.y1))
	drop := f.num.Mul(acc, f.down)
	f.residual = f.num.Sub(acc, f.num.Mul(drop, f.up))

	y := f.num.Add(f.num.Mul(f.b0, x), f.num.Mul(f.b1, f.x1))
	y = f.num.Add(y, f.num.Sub(f.y1, drop))
	f.x1, f.y1 = x, y
	return y
}
