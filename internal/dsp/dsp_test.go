package dsp

import (
	"math"
	"math/rand/v2"
	"testing"

	"go-freqdem/internal/fpm"
)

const float32EqualityThreshold = 1e-6

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) <= float32EqualityThreshold
}

// TestDesignFIRLowPass checks the properties of the generated FIR filter.
func TestDesignFIRLowPass(t *testing.T) {
	const numTaps = 51
	const cutoff = 0.1

	taps := DesignFIRLowPass(numTaps, cutoff)

	if len(taps) != numTaps {
		t.Fatalf("Expected %d taps, but got %d", numTaps, len(taps))
	}

	// 1. Check for symmetry (property of linear-phase FIR filters)
	for i := 0; i < numTaps/2; i++ {
		if !almostEqual(float32(taps[i]), float32(taps[numTaps-1-i])) {
			t.Errorf("Filter is not symmetric. Tap %d (%f) != Tap %d (%f)", i, taps[i], numTaps-1-i, taps[numTaps-1-i])
		}
	}

	// 2. Check that the sum of taps is 1.0 (for DC gain of 1)
	var sum float64
	for _, tap := range taps {
		sum += tap
	}
	if !almostEqual(float32(sum), 1.0) {
		t.Errorf("Expected sum of taps to be 1.0, but got %f", sum)
	}
}

func TestDesignKaiser(t *testing.T) {
	taps, err := DesignKaiser(17, 0.2, 40, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(taps) != 17 {
		t.Fatalf("Expected 17 taps, but got %d", len(taps))
	}

	var sum float64
	for i, tap := range taps {
		sum += tap
		if !almostEqual(float32(tap), float32(taps[16-i])) {
			t.Errorf("Filter is not symmetric at tap %d", i)
		}
	}
	if !almostEqual(float32(sum), 1.0) {
		t.Errorf("Expected sum of taps to be 1.0, but got %f", sum)
	}
	// The center tap dominates.
	for i, tap := range taps {
		if i != 8 && tap >= taps[8] {
			t.Errorf("Tap %d (%f) not below center tap (%f)", i, tap, taps[8])
		}
	}
}

func TestDesignKaiserInvalid(t *testing.T) {
	cases := []struct {
		n         int
		fc, as, m float64
	}{
		{0, 0.2, 40, 0},
		{17, 0, 40, 0},
		{17, 0.6, 40, 0},
		{17, 0.2, 40, 0.7},
	}
	for _, c := range cases {
		if _, err := DesignKaiser(c.n, c.fc, c.as, c.m); err == nil {
			t.Errorf("DesignKaiser(%d, %g, %g, %g) should fail", c.n, c.fc, c.as, c.m)
		}
	}
}

func TestKaiserBeta(t *testing.T) {
	cases := []struct{ as, want float64 }{
		{20, 0},
		{40, 0.5842*math.Pow(19, 0.4) + 0.07886*19},
		{60, 0.1102 * 51.3},
	}
	for _, c := range cases {
		if got := KaiserBeta(c.as); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("KaiserBeta(%g) = %f, want %f", c.as, got, c.want)
		}
	}
	if got := besselI0(0); got != 1 {
		t.Errorf("besselI0(0) = %f, want 1", got)
	}
	// I0(1) = 1.2660658777520082
	if got := besselI0(1); math.Abs(got-1.2660658777520082) > 1e-12 {
		t.Errorf("besselI0(1) = %.16f", got)
	}
}

// TestDecimator_ChunkedMatchesWhole checks the decimating filter keeps its
// timing across blocks of any size.
func TestDecimator_ChunkedMatchesWhole(t *testing.T) {
	taps := []float64{0.1, 0.2, 0.4, 0.2, 0.1}

	input := make([]complex64, 100)
	for i := range input {
		input[i] = complex(float32(i), float32(-i))
	}

	for _, ratio := range []float64{0.5, 0.25, 0.125} {
		whole, err := NewDecimator(taps, ratio)
		if err != nil {
			t.Fatal(err)
		}
		fullOutput := whole.Process(input)

		chunked, _ := NewDecimator(taps, ratio)
		var chunkedOutput []complex64
		offset := 0
		for _, n := range []int{7, 50, 1, 42} {
			chunkedOutput = append(chunkedOutput, chunked.Process(input[offset:offset+n])...)
			offset += n
		}

		if len(fullOutput) != len(chunkedOutput) {
			t.Fatalf("ratio %g: mismatched lengths: full=%d, chunked=%d", ratio, len(fullOutput), len(chunkedOutput))
		}
		for i := range fullOutput {
			if !closeComplex(fullOutput[i], chunkedOutput[i], 1e-3) {
				t.Errorf("ratio %g: mismatch at index %d: full=%v, chunked=%v", ratio, i, fullOutput[i], chunkedOutput[i])
			}
		}
	}
}

// TestDecimator_MatchesDirectConvolution compares the decimator against the
// time-domain filter sum evaluated at every kept position.
func TestDecimator_MatchesDirectConvolution(t *testing.T) {
	const ratio = 0.125
	taps := DesignFIRLowPass(65, 0.05)

	rng := rand.New(rand.NewPCG(1, 2))
	input := make([]complex64, 16_000)
	for i := range input {
		input[i] = complex(float32(rng.NormFloat64()), float32(rng.NormFloat64()))
	}

	d, err := NewDecimator(taps, ratio)
	if err != nil {
		t.Fatal(err)
	}
	var got []complex64
	for off := 0; off < len(input); off += 4000 {
		got = append(got, d.Process(input[off:off+4000])...)
	}

	// The first block starts with len(taps)-1 zeros of state.
	padded := append(make([]complex64, len(taps)-1), input...)
	var want []complex64
	for pos := 0.0; int(pos)+len(taps) <= len(padded); pos += 1 / ratio {
		var acc complex128
		for j, h := range taps {
			acc += complex128(padded[int(pos)+j]) * complex(h, 0)
		}
		want = append(want, complex64(acc))
	}

	if len(got) != len(want) {
		t.Fatalf("got %d outputs, want %d", len(got), len(want))
	}
	for i := range want {
		if !closeComplex(got[i], want[i], 1e-5) {
			t.Fatalf("output %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func closeComplex(a, b complex64, tol float64) bool {
	return math.Abs(float64(real(a)-real(b))) <= tol && math.Abs(float64(imag(a)-imag(b))) <= tol
}

func TestDecimatorInvalid(t *testing.T) {
	if _, err := NewDecimator(nil, 0.5); err == nil {
		t.Error("expected error for empty taps")
	}
	if _, err := NewDecimator([]float64{1}, 2); err == nil {
		t.Error("expected error for ratio above 1")
	}
}

// TestDeemphasis checks the de-emphasis filter's response to a step input.
func TestDeemphasis(t *testing.T) {
	const sampleRate = 48000
	const tau = 50e-6 // 50us

	deemph := NewDeemphasis[float32, complex64, fpm.Float](sampleRate, tau)

	// The output should be an exponential curve approaching 1.0
	// It should always be increasing and never exceed the input value.
	var input float32 = 1.0
	var lastOutput float32
	for i := 0; i < 100; i++ {
		output := deemph.Execute(input)
		if i > 0 && output < lastOutput-float32EqualityThreshold {
			t.Fatalf("De-emphasis output decreased on step input at sample %d", i)
		}
		if output > input+float32EqualityThreshold {
			t.Fatalf("De-emphasis output exceeded input value at sample %d", i)
		}
		lastOutput = output
	}

	for i := 0; i < sampleRate; i++ { // Run for 1s
		deemph.Execute(input)
	}

	finalOutput := deemph.Execute(input)
	if !almostEqual(finalOutput, 1.0) {
		t.Errorf("Expected de-emphasis to settle near 1.0, but got %f", finalOutput)
	}
}

func TestResample(t *testing.T) {
	input := make([]float32, 480)
	for i := range input {
		input[i] = 0.5
	}
	output := Resample(input, 0.5)
	if len(output) != 240 {
		t.Fatalf("Expected 240 samples, got %d", len(output))
	}
	for i, v := range output {
		if !almostEqual(v, 0.5) {
			t.Fatalf("Sample %d: expected 0.5, got %f", i, v)
		}
	}
	if Resample(input[:1], 0.5) != nil {
		t.Error("expected nil for an output shorter than one sample")
	}
}
