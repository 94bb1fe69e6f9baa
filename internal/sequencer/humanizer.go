package sequencer

import (
	"math"
	"math/rand"

	"plldrift/internal/dsp"
	"plldrift/internal/param"
)

// modifierTriggers decides whether a length/velocity/position modifier
// fires for a beat, per spec.md §4.1 "Humaniser": target selects beats
// whose normalised strength lies above/below a threshold derived from
// |target|/100, and the trigger itself is rolled against its probability.
func modifierTriggers(rng *rand.Rand, target, probability, strength float64) bool {
	if probability <= 0 {
		return false
	}
	threshold := math.Abs(target) / 100
	above := target >= 0
	if above && strength < threshold {
		return false
	}
	if !above && strength > (1-threshold) {
		return false
	}
	return rng.Float64() < probability/127
}

// applyLengthModifiers implements the "up to two" length modifiers,
// multiplying duration by 1+uniform(0, amount/100), clamped to at least one
// sample.
func applyLengthModifiers(snap param.Snapshot, rng *rand.Rand, strength float64, durationSamples int64) int64 {
	d := float64(durationSamples)
	for _, m := range []struct{ target, amount, prob param.ID }{
		{param.LenMod1Target, param.LenMod1Amount, param.LenMod1Probability},
		{param.LenMod2Target, param.LenMod2Amount, param.LenMod2Probability},
	} {
		target := snap.Get(m.target)
		amount := snap.Get(m.amount)
		prob := snap.Get(m.prob)
		if modifierTriggers(rng, target, prob, strength) {
			d *= 1 + uniform(rng, amount/100)
		}
	}
	if d < 1 {
		d = 1
	}
	return int64(d + 0.5)
}

// applyVelocityModifiers implements the additive velocity modifiers around
// a base velocity of 100, clamped to [1,127].
func applyVelocityModifiers(snap param.Snapshot, rng *rand.Rand, strength float64) int {
	v := 100.0
	for _, m := range []struct{ target, amount, prob param.ID }{
		{param.VelMod1Target, param.VelMod1Amount, param.VelMod1Probability},
		{param.VelMod2Target, param.VelMod2Amount, param.VelMod2Probability},
	} {
		target := snap.Get(m.target)
		amount := snap.Get(m.amount)
		prob := snap.Get(m.prob)
		if modifierTriggers(rng, target, prob, strength) {
			sign := 1.0
			if rng.Intn(2) == 0 {
				sign = -1
			}
			v += sign * uniform(rng, amount)
		}
	}
	return int(dsp.Clamp(v+0.5, 1, 127))
}

// applyPositionModifiers implements the signed sample-offset position
// modifiers, shift = uniform(0, shift_fraction) * beat_duration_samples.
func applyPositionModifiers(snap param.Snapshot, rng *rand.Rand, strength float64, beatDurationSamples int64) int64 {
	var shift float64
	for _, m := range []struct{ target, amount, prob param.ID }{
		{param.PosMod1Target, param.PosMod1Amount, param.PosMod1Probability},
		{param.PosMod2Target, param.PosMod2Amount, param.PosMod2Probability},
	} {
		target := snap.Get(m.target)
		amount := snap.Get(m.amount)
		prob := snap.Get(m.prob)
		if modifierTriggers(rng, target, prob, strength) {
			frac := uniform(rng, amount/100)
			sign := 1.0
			if rng.Intn(2) == 0 {
				sign = -1
			}
			shift += sign * frac * float64(beatDurationSamples)
		}
	}
	return int64(shift)
}
