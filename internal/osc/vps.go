// Package osc implements the voice's three oscillators: the PLL (the
// signature sound, see pll.go), the phase-distortion VPS waveshaper, and a
// simple sub oscillator.
package osc

import (
	"math"

	"plldrift/internal/dsp"
)

// VPS is the phase-distorted waveshaper of spec.md §4.3: a single
// oscillator producing a stereo pair, the right channel using an offset
// shape parameter for width.
type VPS struct {
	phase float64
}

// safeV clamps V away from 0 and 1, the "safe interval that prevents DC"
// mentioned in spec.md §4.3.
func safeV(v float64) float64 {
	return dsp.Clamp(v, 0.02, 0.98)
}

// shape is the standard two-breakpoint phase-distortion curve: phase in
// [0,1) is distorted by breakpoint V before a sine lookup, with D skewing
// the slope either side of the breakpoint.
func shape(phase, d, v float64) float64 {
	v = safeV(v)
	var warped float64
	if phase < v {
		// D biases how much of the first segment maps to the rising half
		// of the output cycle.
		warped = (phase / v) * lerpSeg(d)
	} else {
		warped = lerpSeg(d) + ((phase-v)/(1-v))*(1-lerpSeg(d))
	}
	return dsp.ParabolicSin(2 * math.Pi * warped)
}

// lerpSeg maps D in [0,1] to the fraction of the output cycle the rising
// (pre-breakpoint) segment occupies, biased around 0.5 for D=0.5.
func lerpSeg(d float64) float64 {
	return dsp.Clamp(0.5+(d-0.5)*0.9, 0.05, 0.95)
}

// softFold applies a soft wavefolder at the configured amount (spec.md
// §4.3: "a soft wavefolder stage at parameter fold").
func softFold(x, amount float64) float64 {
	if amount <= 0 {
		return x
	}
	folded := math.Sin(math.Pi / 2 * x)
	return dsp.Lerp(x, folded, amount)
}

// Advance steps the oscillator by freq/sampleRate and returns the stereo
// pair (spec.md §4.3: "Right channel uses V + stereo_v_offset").
func (o *VPS) Advance(freq, sampleRate, d, v, stereoVOffset, fold float64) dsp.Stereo {
	out := dsp.Stereo{
		L: softFold(shape(o.phase, d, v), fold),
		R: softFold(shape(o.phase, d, safeV(v+stereoVOffset)), fold),
	}
	o.phase = dsp.Wrap01(o.phase + freq/sampleRate)
	return out
}

// Reset snaps the phase to 0 (used on hard retrigger).
func (o *VPS) Reset() { o.phase = 0 }

// Phase returns the current phase, for glide/telemetry purposes.
func (o *VPS) Phase() float64 { return o.phase }
