package dsp

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"go-freqdem/internal/fpm"
)

// FreqDemType selects the frequency discriminator.
type FreqDemType int

const (
	// FreqDemDelayConj estimates frequency from the phase difference of
	// consecutive samples.
	FreqDemDelayConj FreqDemType = iota
	// FreqDemPLL tracks the carrier with a phase-locked loop and reports its
	// frequency.
	FreqDemPLL
)

func (t FreqDemType) String() string {
	switch t {
	case FreqDemDelayConj:
		return "delayconj"
	case FreqDemPLL:
		return "pll"
	default:
		return fmt.Sprintf("FreqDemType(%d)", int(t))
	}
}

// ParseFreqDemType maps "delayconj" or "pll" to a FreqDemType.
func ParseFreqDemType(s string) (FreqDemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delayconj":
		return FreqDemDelayConj, nil
	case "pll":
		return FreqDemPLL, nil
	default:
		return 0, fmt.Errorf("%w: unknown FM demodulator type %q", ErrInvalidParameter, s)
	}
}

// Fixed receive chain design.
const (
	rxFilterLen    = 17
	rxFilterCutoff = 0.2
	rxFilterAtten  = 40.0
	dcBlockerAlpha = 1e-4
	pllBandwidth   = 0.08
)

// FreqDem is an FM demodulator. Every call to Demodulate mutates the filters
// and the oscillator, so an instance belongs to the one goroutine driving its
// sample stream; independent instances share nothing.
type FreqDem[T, C any, F fpm.Format[T, C]] struct {
	num F

	kf         float64 // modulation factor
	twopikfInv T       // 1/(2*pi*kf)
	dphi       T       // carrier frequency offset [radians/sample]
	typ        FreqDemType

	oscillator *NCO[T, C, F] // used by FreqDemPLL
	q          C             // previous sample, used by FreqDemDelayConj
	rxfilter   *FIRFilter[T, C, F]
	postfilter *IIRFilter[T, C, F]
}

type (
	FloatFreqDem = FreqDem[float32, complex64, fpm.Float]
	Q16FreqDem   = FreqDem[fpm.Q16, fpm.CQ16, fpm.Fixed]
)

// NewFreqDem creates a demodulator for modulation factor kf in (0, 1].
func NewFreqDem[T, C any, F fpm.Format[T, C]](kf float64, typ FreqDemType) (*FreqDem[T, C, F], error) {
	if err := validateModulationFactor(kf); err != nil {
		return nil, err
	}
	if typ != FreqDemDelayConj && typ != FreqDemPLL {
		return nil, fmt.Errorf("%w: unknown FM demodulator type %v", ErrInvalidParameter, typ)
	}

	rxfilter, err := NewKaiserFIRFilter[T, C, F](rxFilterLen, rxFilterCutoff, rxFilterAtten, 0)
	if err != nil {
		return nil, err
	}

	q := &FreqDem[T, C, F]{
		kf:         kf,
		typ:        typ,
		rxfilter:   rxfilter,
		postfilter: NewDCBlocker[T, C, F](dcBlockerAlpha),
		oscillator: NewNCO[T, C, F](),
	}
	q.twopikfInv = q.num.FromFloat(1 / (2 * math.Pi * kf))
	q.oscillator.SetPLLBandwidth(pllBandwidth)
	q.Reset()

	log.Debug("freqdem created", "kf", kf, "type", typ, "numeric", q.num.Name())
	return q, nil
}

// NewFloatFreqDem creates a floating point demodulator.
func NewFloatFreqDem(kf float64, typ FreqDemType) (*FloatFreqDem, error) {
	return NewFreqDem[float32, complex64, fpm.Float](kf, typ)
}

// NewQ16FreqDem creates a Q16 fixed-point demodulator.
func NewQ16FreqDem(kf float64, typ FreqDemType) (*Q16FreqDem, error) {
	return NewFreqDem[fpm.Q16, fpm.CQ16, fpm.Fixed](kf, typ)
}

func validateModulationFactor(kf float64) error {
	if !(kf > 0 && kf <= 1) {
		return fmt.Errorf("%w: modulation factor %g out of range (0, 1]", ErrInvalidParameter, kf)
	}
	return nil
}

// Kf returns the modulation factor.
func (q *FreqDem[T, C, F]) Kf() float64 {
	return q.kf
}

// Type returns the discriminator in use.
func (q *FreqDem[T, C, F]) Type() FreqDemType {
	return q.typ
}

// SetCarrierOffset sets a known carrier frequency offset, in radians per
// sample, that is removed from the discriminator output.
func (q *FreqDem[T, C, F]) SetCarrierOffset(dphi float64) {
	q.dphi = q.num.FromFloat(dphi)
}

// Reset clears the oscillator, the previous sample and the filter histories.
// Nothing is reallocated.
func (q *FreqDem[T, C, F]) Reset() {
	var zero C
	q.oscillator.Reset()
	q.q = zero
	q.rxfilter.Reset()
	q.postfilter.Reset()
}

// Demodulate consumes one received sample and returns one message sample.
// Samples must be supplied in stream order.
func (q *FreqDem[T, C, F]) Demodulate(r C) T {
	r = q.rxfilter.Process(r)

	var m T
	switch q.typ {
	case FreqDemPLL:
		p := q.oscillator.Phasor()
		phaseError := q.num.Arg(q.num.CMul(q.num.Conj(p), r))

		q.oscillator.PLLStep(phaseError)
		q.oscillator.Step()

		freq := q.num.Sub(q.oscillator.Frequency(), q.dphi)
		m = q.num.Mul(freq, q.twopikfInv)
	default:
		v := q.num.Sub(q.num.Arg(q.num.CMul(q.num.Conj(q.q), r)), q.dphi)
		m = q.num.Mul(v, q.twopikfInv)
		q.q = r
	}

	return q.postfilter.Execute(m)
}

// DemodulateBlock demodulates r into m and returns the number of samples
// processed, the shorter of the two lengths.
func (q *FreqDem[T, C, F]) DemodulateBlock(r []C, m []T) int {
	n := min(len(r), len(m))
	for i := 0; i < n; i++ {
		m[i] = q.Demodulate(r[i])
	}
	return n
}

// Destroy releases the owned filters and oscillator. The demodulator must not
// be used afterwards; calling Destroy again has no effect.
func (q *FreqDem[T, C, F]) Destroy() {
	q.rxfilter = nil
	q.postfilter = nil
	q.oscillator = nil
}

func (q *FreqDem[T, C, F]) String() string {
	return fmt.Sprintf("freqdem: kf=%.4f type=%v numeric=%s", q.kf, q.typ, q.num.Name())
}

// Print writes a short description of the demodulator to w.
func (q *FreqDem[T, C, F]) Print(w io.Writer) {
	fmt.Fprintf(w, "freqdem:\n")
	fmt.Fprintf(w, "    mod. factor :   %8.4f\n", q.kf)
	fmt.Fprintf(w, "    type        :   %s\n", q.typ)
	fmt.Fprintf(w, "    numeric     :   %s\n", q.num.Name())
}
