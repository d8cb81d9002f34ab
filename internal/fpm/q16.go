package fpm

import (
	"fmt"
	"math"
)

// Q16 is a signed fixed-point number with 16 fractional bits.
//
// All arithmetic saturates at MinQ16 and MaxQ16 instead of wrapping.
type Q16 int32

// CQ16 is a complex number with Q16 components.
type CQ16 struct {
	Re, Im Q16
}

const (
	FracBits = 16

	OneQ16 Q16 = 1 << FracBits
	MaxQ16 Q16 = math.MaxInt32
	MinQ16 Q16 = math.MinInt32

	// PiQ16 and TwoPiQ16 are pi and 2*pi rounded to Q16.
	PiQ16    Q16 = 205887
	TwoPiQ16 Q16 = 411775
)

// saturate clamps a wide intermediate into the Q16 range.
func saturate(v int64) Q16 {
	if v > math.MaxInt32 {
		return MaxQ16
	}
	if v < math.MinInt32 {
		return MinQ16
	}
	return Q16(v)
}

// roundShift divides v by 2^n rounding to nearest.
func roundShift(v int64, n uint) int64 {
	return (v + 1<<(n-1)) >> n
}

// Q16FromFloat converts x to Q16, rounding to nearest and saturating.
func Q16FromFloat(x float64) Q16 {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * float64(OneQ16))
	if v >= math.MaxInt32 {
		return MaxQ16
	}
	if v <= math.MinInt32 {
		return MinQ16
	}
	return Q16(v)
}

// Float returns the value of q as a float64.
func (q Q16) Float() float64 {
	return float64(q) / float64(OneQ16)
}

func (q Q16) String() string {
	return fmt.Sprintf("%.6f", q.Float())
}

// Add returns q+r, saturated.
func (q Q16) Add(r Q16) Q16 {
	return saturate(int64(q) + int64(r))
}

// Sub returns q-r, saturated.
func (q Q16) Sub(r Q16) Q16 {
	return saturate(int64(q) - int64(r))
}

// Mul returns q*r rounded to nearest, saturated.
func (q Q16) Mul(r Q16) Q16 {
	return saturate(roundShift(int64(q)*int64(r), FracBits))
}

func (z CQ16) String() string {
	return fmt.Sprintf("%s%+.6fj", z.Re, z.Im.Float())
}

// Fixed is the Q16.16 fixed-point representation.
type Fixed struct{}

func (Fixed) Name() string { return "q16" }

func (Fixed) FromFloat(x float64) Q16 { return Q16FromFloat(x) }

func (Fixed) Float(x Q16) float64 { return x.Float() }

func (Fixed) FromComplex(z complex128) CQ16 {
	return CQ16{Re: Q16FromFloat(real(z)), Im: Q16FromFloat(imag(z))}
}

func (Fixed) Complex(z CQ16) complex128 {
	return complex(z.Re.Float(), z.Im.Float())
}

func (Fixed) Add(a, b Q16) Q16 { return a.Add(b) }

func (Fixed) Sub(a, b Q16) Q16 { return a.Sub(b) }

func (Fixed) Mul(a, b Q16) Q16 { return a.Mul(b) }

func (Fixed) CAdd(a, b CQ16) CQ16 {
	return CQ16{Re: a.Re.Add(b.Re), Im: a.Im.Add(b.Im)}
}

// CMul accumulates both cross products at full width before rounding once.
func (Fixed) CMul(a, b CQ16) CQ16 {
	re := int64(a.Re)*int64(b.Re) - int64(a.Im)*int64(b.Im)
	im := int64(a.Re)*int64(b.Im) + int64(a.Im)*int64(b.Re)
	return CQ16{
		Re: saturate(roundShift(re, FracBits)),
		Im: saturate(roundShift(im, FracBits)),
	}
}

func (Fixed) Conj(z CQ16) CQ16 {
	return CQ16{Re: z.Re, Im: Q16(0).Sub(z.Im)}
}

func (Fixed) Arg(z CQ16) Q16 {
	return cordicAtan2(int64(z.Im), int64(z.Re))
}

func (Fixed) Scale(z CQ16, k Q16) CQ16 {
	return CQ16{Re: z.Re.Mul(k), Im: z.Im.Mul(k)}
}

func (Fixed) Expj(theta Q16) CQ16 {
	s, c := cordicSincos(Fixed{}.WrapPhase(theta))
	return CQ16{Re: c, Im: s}
}

func (Fixed) WrapPhase(theta Q16) Q16 {
	v := int64(theta)
	if v > int64(PiQ16) || v < -int64(PiQ16) {
		v %= int64(TwoPiQ16)
		if v > int64(PiQ16) {
			v -= int64(TwoPiQ16)
		} else if v < -int64(PiQ16) {
			v += int64(TwoPiQ16)
		}
	}
	return Q16(v)
}
