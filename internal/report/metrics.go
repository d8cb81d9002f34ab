package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSError returns the root-mean-square difference of a and b over their
// common length.
func RMSError(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	return floats.Distance(a[:n], b[:n], 2) / math.Sqrt(float64(n))
}

// PeakError returns the largest absolute difference of a and b over their
// common length.
func PeakError(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	return floats.Distance(a[:n], b[:n], math.Inf(1))
}

// AlignDelay finds the delay d in [0, maxDelay] minimizing the RMS error
// between ref[n] and y[n+d], ignoring the first skip reference samples.
func AlignDelay(ref, y []float64, maxDelay, skip int) (delay int, rms float64) {
	rms = math.Inf(1)
	for d := 0; d <= maxDelay; d++ {
		n := min(len(ref), len(y)-d)
		if n <= skip {
			break
		}
		e := RMSError(ref[skip:n], y[skip+d:n+d])
		if e < rms {
			delay, rms = d, e
		}
	}
	return delay, rms
}
