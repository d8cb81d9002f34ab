package testsignal

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestMultiTone(t *testing.T) {
	var m = MultiTone(1024, ThreeTone)
	require.Len(t, m, 1024)
	assert.InDelta(t, 0.3+0.2*math.Cos(0.4)+0.4*math.Cos(1.7), m[0], 1e-12)
	for _, v := range m {
		assert.LessOrEqual(t, math.Abs(v), 0.9)
	}
}

func TestCarrier(t *testing.T) {
	var x = Carrier(64, 0.25)
	for i := 1; i < len(x); i++ {
		assert.InDelta(t, 1, cmplx.Abs(x[i]), 1e-12)
		assert.InDelta(t, 0.25, cmplx.Phase(x[i]*cmplx.Conj(x[i-1])), 1e-12)
	}
}

func TestAddNoise(t *testing.T) {
	const n = 20000
	var x = make([]complex128, n)
	AddNoise(x, 20, NewRand(1))

	var re = make([]float64, n)
	for i, v := range x {
		re[i] = real(v)
	}
	// 20 dB SNR: total noise std 0.1, per component 0.1/sqrt(2).
	assert.InDelta(t, 0.1/math.Sqrt2, stat.StdDev(re, nil), 0.005)
	assert.InDelta(t, 0, stat.Mean(re, nil), 0.005)
}

func TestAddNoiseDeterministic(t *testing.T) {
	var a, b = make([]complex128, 100), make([]complex128, 100)
	AddNoise(a, 10, NewRand(42))
	AddNoise(b, 10, NewRand(42))
	assert.Equal(t, a, b)
}
