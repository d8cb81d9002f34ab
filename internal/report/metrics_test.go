package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRMSError(t *testing.T) {
	assert.InDelta(t, 0, RMSError([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, 1, RMSError([]float64{0, 0, 0, 0}, []float64{1, -1, 1, -1}), 1e-12)
	assert.InDelta(t, 0, RMSError(nil, []float64{1}), 1e-12)
	assert.InDelta(t, 3, PeakError([]float64{0, 0, 0}, []float64{1, -3, 2}), 1e-12)
}

func TestAlignDelayFindsShift(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var shift = rapid.IntRange(0, 20).Draw(t, "shift")

		var ref = make([]float64, 256)
		for i := range ref {
			ref[i] = math.Sin(0.05*float64(i)) + 0.3*math.Cos(0.17*float64(i))
		}
		var y = make([]float64, len(ref)+shift)
		copy(y[shift:], ref)

		var d, rms = AlignDelay(ref, y, 24, 0)
		assert.Equal(t, shift, d)
		assert.InDelta(t, 0, rms, 1e-12)
	})
}
