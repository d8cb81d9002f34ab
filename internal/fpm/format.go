// Package fpm provides the numeric representations the signal chain runs on.
//
// Every algorithm in internal/dsp is written once against Format and
// instantiated with either Float (native float32) or Fixed (Q16.16).
package fpm

// Format is a numeric representation: a real scalar type T, a complex type C
// and the arithmetic defined on them. Implementations are stateless and their
// zero value is ready to use.
type Format[T, C any] interface {
	// Name identifies the representation ("float", "q16").
	Name() string

	FromFloat(x float64) T
	Float(x T) float64
	FromComplex(z complex128) C
	Complex(z C) complex128

	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T

	CAdd(a, b C) C
	CMul(a, b C) C
	Conj(z C) C
	// Arg returns the four-quadrant angle of z in radians; Arg(0) is 0.
	Arg(z C) T
	// Scale multiplies both components of z by the real k.
	Scale(z C, k T) C
	// Expj returns the unit phasor exp(j*theta).
	Expj(theta T) C
	// WrapPhase reduces theta to [-pi, pi].
	WrapPhase(theta T) T
}
