package dsp

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"go-freqdem/internal/fpm"
)

func TestFIRFilterImpulseResponse(t *testing.T) {
	taps := []float64{0.1, 0.2, 0.4, 0.2, 0.1}
	f := NewFIRFilter[float32, complex64, fpm.Float](taps)
	require.Equal(t, 5, f.Len())

	out := []complex64{f.Process(1)}
	for i := 0; i < 6; i++ {
		out = append(out, f.Process(0))
	}
	want := []complex64{0.1, 0.2, 0.4, 0.2, 0.1, 0, 0}
	for i := range want {
		assert.InDelta(t, real(want[i]), real(out[i]), 1e-7, "sample %d", i)
	}
}

func TestFIRFilterMatchesConvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		taps := rapid.SliceOfN(rapid.Float64Range(-1, 1), 1, 24).Draw(t, "taps")
		re := rapid.SliceOfN(rapid.Float64Range(-1, 1), 1, 64).Draw(t, "re")

		x := make([]complex128, len(re))
		for i, v := range re {
			x[i] = complex(v, -v/2)
		}

		f := NewFIRFilter[fpm.Q16, fpm.CQ16, fpm.Fixed](taps)
		for n := range x {
			var want complex128
			for k, h := range taps {
				if n-k >= 0 {
					want += complex(fpm.Q16FromFloat(h).Float(), 0) * fpm.Fixed{}.Complex(fpm.Fixed{}.FromComplex(x[n-k]))
				}
			}
			got := fpm.Fixed{}.Complex(f.Process(fpm.Fixed{}.FromComplex(x[n])))
			// one rounding per tap and component
			assert.InDelta(t, 0, cmplx.Abs(got-want), float64(len(taps))*2/65536, "sample %d", n)
		}
	})
}

func TestFIRFilterReset(t *testing.T) {
	f := NewFIRFilter[float32, complex64, fpm.Float]([]float64{0.5, 0.5})
	f.Process(complex(1, 1))
	f.Reset()
	assert.Equal(t, complex64(0), f.Execute())
}

func TestDCBlocker(t *testing.T) {
	const alpha = 0.01
	ff := NewDCBlocker[float32, complex64, fpm.Float](alpha)
	fq := NewDCBlocker[fpm.Q16, fpm.CQ16, fpm.Fixed](alpha)

	var lastF float32
	var lastQ fpm.Q16
	for i := 0; i < 2000; i++ {
		lastF = ff.Execute(0.5)
		lastQ = fq.Execute(fpm.Q16FromFloat(0.5))
	}
	// A constant input decays to zero.
	assert.InDelta(t, 0, lastF, 1e-4)
	assert.InDelta(t, 0, lastQ.Float(), 1e-4)

	ff.Reset()
	assert.Equal(t, float32(0), ff.Execute(0))
}

func TestDCBlockerFixedNarrowNotch(t *testing.T) {
	// alpha*y rounds to zero in Q16 for |y| below ~0.07; the filter must
	// still remove a DC level well under that.
	ff := NewDCBlocker[float32, complex64, fpm.Float](dcBlockerAlpha)
	fq := NewDCBlocker[fpm.Q16, fpm.CQ16, fpm.Fixed](dcBlockerAlpha)

	x := fpm.Q16FromFloat(0.05)
	var yf float32
	var yq fpm.Q16
	for i := 0; i < 100_000; i++ {
		yf = ff.Execute(float32(x.Float()))
		yq = fq.Execute(x)
		if i%10_000 == 0 {
			assert.InDelta(t, yf, yq.Float(), 1e-4, "sample %d", i)
		}
	}
	assert.InDelta(t, 0, yf, 1e-5)
	assert.InDelta(t, 0, yq.Float(), 1e-4)

	fq.Reset()
	assert.Zero(t, fq.Execute(0))
}

func TestIIRLeakShift(t *testing.T) {
	assert.Equal(t, 13, leakShift(1e-4))
	assert.Equal(t, 3, leakShift(0.0741))
	assert.Equal(t, 0, leakShift(0.5+1e-9))
	assert.Equal(t, 1, leakShift(0.5))
	assert.Equal(t, 0, leakShift(1.5))
	assert.Equal(t, 0, leakShift(0))
	assert.Equal(t, maxLeakShift, leakShift(1e-9))
}
