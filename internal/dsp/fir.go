package dsp

import "go-freqdem/internal/fpm"

// FIRFilter is a per-sample complex FIR filter with real taps.
type FIRFilter[T, C any, F fpm.Format[T, C]] struct {
	num    F
	taps   []T
	window []C
	index  int // next write position; the newest sample sits just before it
}

// NewFIRFilter creates a filter from floating point taps, converted once into
// the representation F.
func NewFIRFilter[T, C any, F fpm.Format[T, C]](taps []float64) *FIRFilter[T, C, F] {
	f := &FIRFilter[T, C, F]{
		taps:   make([]T, len(taps)),
		window: make([]C, len(taps)),
	}
	for i, h := range taps {
		f.taps[i] = f.num.FromFloat(h)
	}
	return f
}

// NewKaiserFIRFilter creates a low-pass filter designed with DesignKaiser.
func NewKaiserFIRFilter[T, C any, F fpm.Format[T, C]](n int, fc, as, mu float64) (*FIRFilter[T, C, F], error) {
	taps, err := DesignKaiser(n, fc, as, mu)
	if err != nil {
		return nil, err
	}
	return NewFIRFilter[T, C, F](taps), nil
}

// Len returns the number of taps.
func (f *FIRFilter[T, C, F]) Len() int {
	return len(f.taps)
}

// Reset clears the sample history.
func (f *FIRFilter[T, C, F]) Reset() {
	clear(f.window)
	f.index = 0
}

// Push adds a sample to the filter history.
func (f *FIRFilter[T, C, F]) Push(x C) {
	f.window[f.index] = x
	f.index++
	if f.index == len(f.window) {
		f.index = 0
	}
}

// Execute computes the output for the current history: y = sum h[k] x[n-k].
func (f *FIRFilter[T, C, F]) Execute() C {
	var acc C
	j := f.index
	for _, h := range f.taps {
		j--
		if j < 0 {
			j = len(f.window) - 1
		}
		acc = f.num.CAdd(acc, f.num.Scale(f.window[j], h))
	}
	return acc
}

// Process pushes x and returns the filter output.
func (f *FIRFilter[T, C, F]) Process(x C) C {
	f.Push(x)
	return f.Execute()
}
