// Package filter implements the Stilson 4-pole Moog-ladder lowpass of
// spec.md §4.4, operating on dsp.Stereo pairs.
package filter

import (
	"math"

	"plldrift/internal/dsp"
)

// Moog is the per-voice filter state: four cascaded one-pole stages, times
// two channels (spec.md §3 "the moog-ladder state vector (4 poles × 2
// channels)").
type Moog struct {
	stage [4]dsp.Stereo
}

// Reset clears all four stages (used on explicit panic/reset, §3).
func (m *Moog) Reset() {
	m.stage = [4]dsp.Stereo{}
}

// coefficients derives the ladder's per-stage gain g from cutoff, using the
// standard Stilson approximation; the resonance feedback k is computed in
// Process.
func coefficients(cutoff, sampleRate float64) float64 {
	fc := dsp.Clamp(cutoff, 20, 0.4*sampleRate) / sampleRate
	g := 1 - math.Exp(-2*math.Pi*fc)
	return g
}

// Process runs one sample through the ladder. drive saturates the input
// via tanh(drive*x)/drive (spec.md §4.4); resonance is 0..0.98, near which
// the filter self-oscillates.
func (m *Moog) Process(in dsp.Stereo, cutoff, resonance, drive, sampleRate float64) dsp.Stereo {
	g := coefficients(cutoff, sampleRate)
	k := dsp.Clamp(resonance, 0, 0.98) * 4

	driven := in.PairOp(func(x float64) float64 {
		if drive <= 1 {
			return x
		}
		return math.Tanh(drive*x) / drive
	})

	fb := m.stage[3].Scale(k)
	x := driven.Add(fb.Scale(-1))

	for i := 0; i < 4; i++ {
		x = x.Add(m.stage[i].Scale(-1)).Scale(g).Add(m.stage[i])
		m.stage[i] = x
	}
	return x
}

// CutoffAt linearly interpolates cutoff across a block (spec.md §4.4:
// "cutoff updates interpolate linearly across the block"): sample i of n
// reads a value between prevTarget (the previous block's target) and
// newTarget (this block's).
func (m *Moog) CutoffAt(prevTarget, newTarget float64, i, n int) float64 {
	if n <= 1 {
		return newTarget
	}
	t := float64(i) / float64(n-1)
	return dsp.Lerp(prevTarget, newTarget, t)
}
