package fpm

import "math"

// Float is the native floating point representation.
type Float struct{}

func (Float) Name() string { return "float" }

func (Float) FromFloat(x float64) float32 { return float32(x) }

func (Float) Float(x float32) float64 { return float64(x) }

func (Float) FromComplex(z complex128) complex64 { return complex64(z) }

func (Float) Complex(z complex64) complex128 { return complex128(z) }

func (Float) Add(a, b float32) float32 { return a + b }

func (Float) Sub(a, b float32) float32 { return a - b }

func (Float) Mul(a, b float32) float32 { return a * b }

func (Float) CAdd(a, b complex64) complex64 { return a + b }

func (Float) CMul(a, b complex64) complex64 { return a * b }

func (Float) Conj(z complex64) complex64 { return complex(real(z), -imag(z)) }

func (Float) Arg(z complex64) float32 {
	if z == 0 {
		return 0
	}
	return float32(math.Atan2(float64(imag(z)), float64(real(z))))
}

func (Float) Scale(z complex64, k float32) complex64 {
	return complex(real(z)*k, imag(z)*k)
}

func (Float) Expj(theta float32) complex64 {
	s, c := math.Sincos(float64(theta))
	return complex(float32(c), float32(s))
}

// WrapPhase reduces theta to [-pi, pi]. Non-finite input yields 0.
func (Float) WrapPhase(theta float32) float32 {
	if theta >= -math.Pi && theta <= math.Pi {
		return theta
	}
	v := float64(theta)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return float32(math.Remainder(v, 2*math.Pi))
}
