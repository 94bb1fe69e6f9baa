// Package envelope implements the two shape-controlled ADSRs of spec.md
// §4.7. Grounded on the pack's envelope.ADSR (justyntemme-vst3go), whose
// exponential-coefficient approach is generalized here with a per-segment
// shape control interpolating log -> linear -> exp.
package envelope

import "math"

type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

// ADSR is one shape-controlled envelope generator.
type ADSR struct {
	sampleRate float64

	attack, decay, sustain, release float64
	attackShape, decayShape, releaseShape float64

	stage  Stage
	value  float64
	target float64
	from   float64 // segment start value, for shape interpolation
	elapsedSamples float64
	segmentSamples float64

	velocitySmooth float64
}

// New creates an ADSR at the given sample rate with spec.md §4.7 minimum
// times (1ms, attack bumped to 2ms on retrigger is handled by Trigger's
// retrigger flag).
func New(sampleRate float64) *ADSR {
	return &ADSR{sampleRate: sampleRate, stage: StageIdle}
}

func (e *ADSR) SetSampleRate(sr float64) { e.sampleRate = sr }

func (e *ADSR) SetADSR(attack, decay, sustain, release float64) {
	e.attack = math.Max(0.001, attack)
	e.decay = math.Max(0.001, decay)
	e.sustain = clamp01(sustain)
	e.release = math.Max(0.001, release)
}

func (e *ADSR) SetShapes(a, d, r float64) {
	e.attackShape, e.decayShape, e.releaseShape = a, d, r
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Trigger starts (or retriggers) the envelope. retrigger, if true, bumps
// the minimum attack time to 2ms per spec.md §4.7.
func (e *ADSR) Trigger(retrigger bool) {
	e.stage = StageAttack
	e.from = e.value
	e.target = 1
	attack := e.attack
	if retrigger && attack < 0.002 {
		attack = 0.002
	}
	e.segmentSamples = attack * e.sampleRate
	e.elapsedSamples = 0
}

func (e *ADSR) Release() {
	if e.stage == StageIdle {
		return
	}
	e.stage = StageRelease
	e.from = e.value
	e.target = 0
	e.segmentSamples = e.release * e.sampleRate
	e.elapsedSamples = 0
}

func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.value = 0
	e.target = 0
	e.elapsedSamples = 0
}

func (e *ADSR) IsActive() bool   { return e.stage != StageIdle }
func (e *ADSR) Stage() Stage     { return e.stage }
func (e *ADSR) Value() float64   { return e.value }

// shapeCurve interpolates log -> linear -> exp across shape in [-5,5]:
// negative shapes bias toward logarithmic (fast start, slow finish),
// positive toward exponential (slow start, fast finish), 0 is linear.
func shapeCurve(t, shape float64) float64 {
	if shape == 0 {
		return t
	}
	k := shape / 5 // -1..1
	if k > 0 {
		// Exponential-leaning: t^(1+3k)
		return math.Pow(t, 1+3*k)
	}
	// Logarithmic-leaning: 1-(1-t)^(1-3k)
	return 1 - math.Pow(1-t, 1-3*k)
}

// Next advances the envelope by one sample and returns the new value.
func (e *ADSR) Next() float64 {
	switch e.stage {
	case StageAttack:
		e.advanceSegment(e.attackShape)
		if e.elapsedSamples >= e.segmentSamples {
			e.value = 1
			e.stage = StageDecay
			e.from = 1
			e.target = e.sustain
			e.segmentSamples = e.decay * e.sampleRate
			e.elapsedSamples = 0
		}
	case StageDecay:
		e.advanceSegment(e.decayShape)
		if e.elapsedSamples >= e.segmentSamples {
			e.value = e.sustain
			e.stage = StageSustain
		}
	case StageSustain:
		e.value = e.sustain
	case StageRelease:
		e.advanceSegment(e.releaseShape)
		if e.elapsedSamples >= e.segmentSamples {
			e.value = 0
			e.stage = StageIdle
		}
	case StageIdle:
		e.value = 0
	}
	return e.value
}

func (e *ADSR) advanceSegment(shape float64) {
	e.elapsedSamples++
	if e.segmentSamples <= 0 {
		e.value = e.target
		return
	}
	t := e.elapsedSamples / e.segmentSamples
	if t > 1 {
		t = 1
	}
	curved := shapeCurve(t, shape)
	e.value = e.from + (e.target-e.from)*curved
}

// SmoothVelocity applies the 5ms velocity smoothing from spec.md §4.7
// ("Velocity changes are smoothed over 5ms to avoid amplitude
// discontinuity"). Call once per sample with the latest target velocity
// (0..1 normalised); returns the smoothed value to multiply against output.
func (e *ADSR) SmoothVelocity(target float64) float64 {
	coef := 1.0
	if e.sampleRate > 0 {
		tau := 0.005
		coef = 1 - math.Exp(-1/(tau*e.sampleRate))
	}
	e.velocitySmooth += (target - e.velocitySmooth) * coef
	return e.velocitySmooth
}
