package fpm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFloatWrapPhase(t *testing.T) {
	var f Float
	rapid.Check(t, func(t *rapid.T) {
		var theta = float32(rapid.Float64Range(-1e12, 1e12).Draw(t, "theta"))
		var w = f.WrapPhase(theta)

		assert.LessOrEqual(t, w, float32(math.Pi))
		assert.GreaterOrEqual(t, w, -float32(math.Pi))

		var d = math.Remainder(float64(w)-float64(theta), 2*math.Pi)
		assert.InDelta(t, 0, d, 1e-6)
	})
}

func TestFloatWrapPhaseLarge(t *testing.T) {
	var f Float
	// Subtracting 2*pi from these no longer changes a float32.
	for _, theta := range []float32{1e9, -1e9, 1e10, math.MaxFloat32, -math.MaxFloat32} {
		var w = f.WrapPhase(theta)
		assert.LessOrEqual(t, math.Abs(float64(w)), float64(float32(math.Pi)), "theta=%g", theta)
	}

	for _, theta := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.Equal(t, float32(0), f.WrapPhase(float32(theta)), "theta=%g", theta)
	}

	assert.Equal(t, float32(1.5), f.WrapPhase(1.5))
	assert.InDelta(t, 4-2*math.Pi, f.WrapPhase(4), 1e-6)
}
