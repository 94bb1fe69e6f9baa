// Package color implements the post-mix, pre-filter colouration chain of
// spec.md §4.6, applied in the fixed order: ring, fold, drift (applied to
// the PLL reference, not the signal path itself), noise, tube, distortion.
package color

import (
	"math"
	"math/rand"

	"plldrift/internal/dsp"
)

// Ring applies ring modulation against the PLL's own output:
// lerp(x, x*pll, amount).
func Ring(x, pllSample, amount float64) float64 {
	return dsp.Lerp(x, x*pllSample, amount)
}

// Fold applies the sinusoidal wavefolder: lerp(x, sin(pi*amount*x), amount).
func Fold(x, amount float64) float64 {
	return dsp.Lerp(x, math.Sin(math.Pi*amount*x), amount)
}

// DriftIncrement returns the LFO value to add to the PLL's reference-phase
// increment (spec.md §4.6: "drift modulates PLL reference only"). Callers
// add this to ref_phase's per-sample increment inside osc.Channel.Step.
func DriftIncrement(lfoValue, amount float64) float64 {
	return lfoValue * amount
}

// Noise is gated white noise, gated by the volume envelope (spec.md §4.6:
// "noise adds gated white noise (gated by volume envelope)").
type Noise struct {
	rng *rand.Rand
}

func NewNoise(seed int64) *Noise { return &Noise{rng: rand.New(rand.NewSource(seed))} }

func (n *Noise) Process(envelopeLevel, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	return (n.rng.Float64()*2 - 1) * amount * envelopeLevel
}

// Tube applies an asymmetric soft clip, harder on x>0 (spec.md §4.6).
func Tube(x, amount float64) float64 {
	if amount <= 0 {
		return x
	}
	var clipped float64
	if x > 0 {
		clipped = math.Tanh(x * (1 + amount*2))
	} else {
		clipped = math.Tanh(x * (1 + amount))
	}
	return dsp.Lerp(x, clipped, amount)
}

// Distortion is a Bram-de-Jong-style waveshaper: gained up to x50, with
// threshold-based soft clipping and loudness compensation (spec.md §4.6).
func Distortion(x, amount, gain float64) float64 {
	if amount <= 0 {
		return x
	}
	driven := x * gain
	const threshold = 1.0 / 3.0
	var shaped float64
	abs := math.Abs(driven)
	switch {
	case abs < threshold:
		shaped = 2 * driven
	case abs < 2*threshold:
		sign := math.Copysign(1, driven)
		shaped = sign * (3 - (2-3*abs)*(2-3*abs)) / 3
	default:
		shaped = math.Copysign(1, driven)
	}
	// Loudness compensation: normalise by the gain so higher drive doesn't
	// simply get louder as it gets harsher.
	comp := shaped / math.Max(1, math.Sqrt(gain))
	return dsp.Lerp(x, comp, amount)
}

// Chain bundles the stateful stages (currently just Noise) so Voice can own
// one instance per voice.
type Chain struct {
	Noise *Noise
}

func NewChain(seed int64) *Chain {
	return &Chain{Noise: NewNoise(seed)}
}

// Params carries one sample's worth of colouration settings.
type Params struct {
	RingAmount       float64
	FoldAmount       float64
	NoiseAmount      float64
	TubeAmount       float64
	DistortionAmount float64
	DistortionGain   float64
}

// Process applies ring, fold, noise, tube, distortion in that fixed order
// (drift is handled separately inside the PLL itself, per spec.md §4.6).
func (c *Chain) Process(x, pllSample, envelopeLevel float64, p Params) float64 {
	y := Ring(x, pllSample, p.RingAmount)
	y = Fold(y, p.FoldAmount)
	y += c.Noise.Process(envelopeLevel, p.NoiseAmount)
	y = Tube(y, p.TubeAmount)
	y = Distortion(y, p.DistortionAmount, p.DistortionGain)
	return y
}
