// Package formant implements the PLL-only vowel filter of spec.md §4.7:
// three parallel bandpass biquads tuned to a vowel's F1/F2/F3 formant
// frequencies, linearly interpolated across a 5-point A/E/I/O/U table and
// shifted by an octave-style semitone control, mixed and soft-clipped.
//
// Grounded on the original implementation's synth::formant::FormantFilter
// (_examples/original_source/src/synth/formant.rs): same vowel table, same
// interpolation, same per-formant Q (2.5/3.5/4.5), same mix gains
// (3.0/2.5/2.0) and tanh(mixed*2.0) output stage. That filter is itself
// never invoked from the original's voice processing loop — it's marked
// dead code there — so this package gives it the live DSP stage and voice
// wiring spec.md §4.7/§6's Formant group requires.
package formant

import (
	"math"

	"plldrift/internal/dsp"
)

// vowels holds (F1, F2, F3) in Hz for A, E, I, O, U.
var vowels = [5][3]float64{
	{730, 1090, 2440}, // A (ah)
	{530, 1840, 2480}, // E (eh)
	{270, 2290, 3010}, // I (ee)
	{570, 840, 2410},  // O (oh)
	{300, 870, 2240},  // U (oo)
}

// interpolateVowel linearly interpolates the 5-point vowel table by a
// position in [0,1].
func interpolateVowel(vowel float64) (f1, f2, f3 float64) {
	vowel = dsp.Clamp(vowel, 0, 1)
	scaled := vowel * 4 // 0..4 across 5 vowels
	idx := int(scaled)
	if idx > 3 {
		idx = 3
	}
	frac := scaled - float64(idx)

	a, b := vowels[idx], vowels[idx+1]
	return dsp.Lerp(a[0], b[0], frac), dsp.Lerp(a[1], b[1], frac), dsp.Lerp(a[2], b[2], frac)
}

// biquadState is one Direct-Form-I bandpass's x/y history.
type biquadState struct {
	x1, x2, y1, y2 float64
}

func (b *biquadState) reset() { *b = biquadState{} }

// processBandpass runs one constant-0dB-peak-gain RBJ bandpass biquad.
func processBandpass(input, freq, q, sampleRate float64, s *biquadState) float64 {
	omega := 2 * math.Pi * freq / sampleRate
	sinOmega, cosOmega := math.Sin(omega), math.Cos(omega)
	alpha := sinOmega / (2 * q)

	b0, b2 := alpha, -alpha
	a0 := 1 + alpha
	a1 := -2 * cosOmega
	a2 := 1 - alpha

	b0n, b2n := b0/a0, b2/a0
	a1n, a2n := a1/a0, a2/a0

	out := b0n*input + b2n*s.x2 - a1n*s.y1 - a2n*s.y2
	s.x2 = s.x1
	s.x1 = input
	s.y2 = s.y1
	s.y1 = out
	return out
}

// Filter is one voice's formant stage, PLL-only per spec.md §4.7. Slew is
// applied in Hz/second to the three formant center frequencies so a vowel
// or shift change glides rather than snapping discontinuously.
type Filter struct {
	bp1Freq, bp2Freq, bp3Freq float64
	bp1, bp2, bp3             biquadState

	slew1, slew2, slew3 dsp.Slew
}

// slewMS is the linear slew time (milliseconds) the original applies to
// each formant frequency on vowel/shift changes.
const slewMS = 50.0

// SetVowel updates the target formant frequencies from vowel (0..1 across
// A/E/I/O/U) and shift (semitones, applied as 2^(shift/12)), slewing the
// filter's actual bp*Freq state toward them by at most one slewMS-worth of
// travel per call (called once per sample from Voice.Process).
func (f *Filter) SetVowel(vowel, shiftSemitones, sampleRate float64) {
	f1, f2, f3 := interpolateVowel(vowel)
	shiftFactor := math.Pow(2, shiftSemitones/12)

	maxStep := func(target float64) float64 {
		return math.Abs(target) / (slewMS / 1000 * sampleRate)
	}
	t1, t2, t3 := f1*shiftFactor, f2*shiftFactor, f3*shiftFactor
	f.bp1Freq = f.slew1.Step(t1, maxStep(t1))
	f.bp2Freq = f.slew2.Step(t2, maxStep(t2))
	f.bp3Freq = f.slew3.Step(t3, maxStep(t3))
}

// Process runs input through the three formant bandpasses and returns the
// mixed, tanh-clipped output (spec.md §4.7).
func (f *Filter) Process(input, sampleRate float64) float64 {
	const q1, q2, q3 = 2.5, 3.5, 4.5

	out1 := processBandpass(input, dsp.Clamp(f.bp1Freq, 50, 10000), q1, sampleRate, &f.bp1)
	out2 := processBandpass(input, dsp.Clamp(f.bp2Freq, 50, 15000), q2, sampleRate, &f.bp2)
	out3 := processBandpass(input, dsp.Clamp(f.bp3Freq, 50, 18000), q3, sampleRate, &f.bp3)

	mixed := out1*3 + out2*2.5 + out3*2
	return math.Tanh(mixed * 2)
}

// Reset clears all biquad and slew state (voice.Panic's "reset at explicit
// user-initiated panic").
func (f *Filter) Reset() {
	f.bp1.reset()
	f.bp2.reset()
	f.bp3.reset()
	f.bp1Freq, f.bp2Freq, f.bp3Freq = 0, 0, 0
	f.slew1.Reset(0)
	f.slew2.Reset(0)
	f.slew3.Reset(0)
}
