package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Decimator is a stateful, block-based complex FIR filter that also changes
// the sample rate by a fixed ratio. It selects the channel ahead of the
// demodulator when the IQ source runs faster than the demodulator needs.
//
// Each block is filtered in the frequency domain: the saved state and the new
// input are transformed together, multiplied by the spectrum of the reversed
// taps and transformed back. Only outputs whose window lies entirely inside
// the block are kept, so the circular wrap never reaches them.
type Decimator struct {
	taps   []float64
	ratio  float64
	state  []complex64
	offset float64 // position of the next output relative to the saved state

	fft      *fourier.CmplxFFT
	response []complex128 // spectrum of the reversed taps at fft.Len()
	work     []complex128
}

// NewDecimator creates a decimator with the given taps and output/input rate
// ratio in (0, 1].
func NewDecimator(taps []float64, ratio float64) (*Decimator, error) {
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: decimator needs at least one tap", ErrInvalidParameter)
	}
	if !(ratio > 0 && ratio <= 1) {
		return nil, fmt.Errorf("%w: decimation ratio %g out of range (0, 1]", ErrInvalidParameter, ratio)
	}
	return &Decimator{
		taps:  append([]float64(nil), taps...),
		ratio: ratio,
		state: make([]complex64, len(taps)-1),
	}, nil
}

// Process filters a block of input samples and updates the filter's internal
// state. Output timing is carried across calls, so splitting the input into
// arbitrary blocks yields the same output stream.
func (d *Decimator) Process(input []complex64) []complex64 {
	step := 1.0 / d.ratio
	length := len(d.taps)

	buffer := make([]complex64, len(d.state)+len(input))
	copy(buffer, d.state)
	copy(buffer[len(d.state):], input)

	var output []complex64
	pos := d.offset
	if int(pos)+length <= len(buffer) {
		filtered := d.filter(buffer)
		for int(pos)+length <= len(buffer) {
			// The window starting at pos ends at pos+length-1.
			output = append(output, complex64(filtered[int(pos)+length-1]))
			pos += step
		}
	}

	// The state for the next run is the last (filter_length - 1) samples of the buffer.
	consumed := len(buffer) - (length - 1)
	d.offset = pos - float64(consumed)
	d.state = buffer[consumed:]
	return output
}

// filter returns the circular convolution of buffer with the reversed taps,
// scaled back to unit gain.
func (d *Decimator) filter(buffer []complex64) []complex128 {
	n := nextPow2(len(buffer))
	d.plan(n)

	for i := range d.work {
		d.work[i] = 0
	}
	for i, v := range buffer {
		d.work[i] = complex128(v)
	}
	coeffs := d.fft.Coefficients(nil, d.work)
	for i := range coeffs {
		coeffs[i] *= d.response[i]
	}
	out := d.fft.Sequence(d.work, coeffs)
	scale := complex(1/float64(n), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// plan prepares the transform and tap spectrum for n points. Blocks of a
// steady stream share one size, so this only runs when the size changes.
func (d *Decimator) plan(n int) {
	if d.fft != nil && d.fft.Len() == n {
		return
	}
	d.fft = fourier.NewCmplxFFT(n)
	d.work = make([]complex128, n)
	reversed := make([]complex128, n)
	for j, h := range d.taps {
		reversed[len(d.taps)-1-j] = complex(h, 0)
	}
	d.response = d.fft.Coefficients(nil, reversed)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
