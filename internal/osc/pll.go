package osc

import (
	"math"

	"plldrift/internal/dsp"
)

// PDMode selects the phase detector used by the loop (spec.md §4.2 step 2).
type PDMode int

const (
	AnalogLikePD PDMode = iota
	EdgePFD
)

// PLLParams is the full set of per-sample-update inputs to Channel.Step,
// already resolved from the smoothed parameter store plus modulation
// (spec.md §4.2). RefFreq is the reference oscillator frequency in Hz.
type PLLParams struct {
	RefFreq          float64
	Mult             float64 // combined discrete*continuous multiplier
	PD               PDMode
	EdgeSensitivity  float64
	TrackSpeed       float64 // 0..1, cubed internally to map onto [3,150]Hz
	Damping          float64 // 0..1, mapped onto [0.15,1.5]
	Influence        float64
	LoopSaturation   float64
	BurstThreshold   float64
	BurstAmount      float64
	BurstGateDamping bool
	FMRatio          float64
	FMAmount         float64
	Colored          bool
	CrossFeedback    float64
	SampleRate       float64
}

// Channel is one PLL channel's state (spec.md §3 "Voice state": reference +
// VCO phase accumulators, loop integrator, PFD sample counter, DC-block
// memory). A stereo PLL oscillator is a pair of Channels plus the
// cross-feedback term wired between them.
type Channel struct {
	refPhase float64
	vcoPhase float64

	integrator float64

	// EdgePFD bookkeeping: whole-sample counts since the last reference/VCO
	// phase wrap, and the previous VCO phase (prevVCORaw) for detecting the
	// VCO wrap. prevRefRaw is not read; crossings are not interpolated
	// below one sample.
	refCrossCounter int
	vcoCrossCounter int
	prevRefRaw      float64
	prevVCORaw      float64

	lpfState float64 // anti-alias one-pole, engaged above 0.48*fs
	dc       dsp.DCBlock

	lastOutput float64 // for cross-feedback into the opposite channel
}

// Reset hard-resets both phase accumulators (spec.md §4.2 invariants:
// "vco_phase is never reset to 0 on note-on unless retrigger is 0").
func (c *Channel) Reset() {
	c.refPhase = 0
	c.vcoPhase = 0
	c.integrator = 0
	c.refCrossCounter = 0
	c.vcoCrossCounter = 0
	c.dc.Reset()
	c.lastOutput = 0
}

// SoftRetrigger blends vco_phase toward 0 scaled by retrigger (spec.md
// §4.2: "otherwise a soft blend toward 0 scaled by retrigger"): retrigger=1
// continues the phase smoothly (no blend toward 0), retrigger=0 snaps it
// fully to 0.
func (c *Channel) SoftRetrigger(retrigger float64) {
	c.vcoPhase = dsp.Wrap01(c.vcoPhase * dsp.Clamp(retrigger, 0, 1))
}

// loopCoefficients derives Kp/Ki and the integrator decay from track_speed
// and damping (spec.md §4.2 step 3).
func loopCoefficients(trackSpeed, damping float64) (kp, ki, decay float64) {
	t := dsp.Clamp(trackSpeed, 0, 1)
	wn := 3 + (t*t*t)*(150-3)
	zeta := 0.15 + dsp.Clamp(damping, 0, 1)*(1.5-0.15)
	kp = 2 * zeta * wn
	ki = wn * wn
	// Integrator decay keeps the loop bounded under extreme zeta/wn combos
	// (§4.2 "Failure model"): slightly less than 1, tightening as damping
	// drops toward 0 (less damping -> more decay, to keep the open-loop
	// integrator contained).
	decay = 1 - 0.0005*(1-dsp.Clamp(damping, 0, 1))
	return
}

// Step advances the channel by one internal (oversampled) sample and
// returns the raw (pre-mix) output sample (spec.md §4.2 steps 1-7).
// otherOutput is the opposite stereo channel's previous output sample, for
// cross-feedback (step 7); envInfluence folds in the FM-envelope amount.
func (c *Channel) Step(p PLLParams, otherOutput, envInfluence, driftAdd float64) float64 {
	fs := p.SampleRate
	if fs <= 0 {
		fs = 48000
	}

	// Step 1: advance reference phase.
	refInc := (p.RefFreq + driftAdd*p.RefFreq) / fs
	prevRefPhase := c.refPhase
	c.refPhase = dsp.Wrap01(c.refPhase + refInc)
	refWrapped := c.refPhase < prevRefPhase

	// Step 2: phase error.
	var e float64
	switch p.PD {
	case EdgePFD:
		e = c.edgePFD(refWrapped, p.EdgeSensitivity)
	default:
		diff := dsp.WrapPi(2*math.Pi*(c.refPhase - c.vcoPhase/math.Max(p.Mult, 1e-6)))
		e = dsp.Clamp(diff/math.Pi, -1, 1)
	}

	// Step 3: loop filter.
	kp, ki, decay := loopCoefficients(p.TrackSpeed, p.Damping)
	c.integrator = (c.integrator + ki*e/fs) * decay
	control := kp*e + c.integrator
	control = dsp.Clamp(control, -p.LoopSaturation, p.LoopSaturation)

	// Step 4: overtrack burst.
	if p.TrackSpeed > p.BurstThreshold {
		burst := p.BurstAmount * (p.TrackSpeed - p.BurstThreshold)
		if p.BurstGateDamping {
			burst *= p.Damping
		}
		control += burst
	}

	// Step 7 (folded in before integration since it feeds the same control
	// term): cross-feedback from the opposite channel's previous sample.
	control += p.CrossFeedback * otherOutput

	// Step 5: integrate VCO, optional FM.
	vcoFreq := p.RefFreq * p.Mult * (1 + p.Influence*control)
	if fmDepth := p.FMAmount + envInfluence; fmDepth > 0 {
		fmOsc := dsp.ParabolicSin(2 * math.Pi * dsp.Wrap01(c.refPhase*p.FMRatio))
		vcoFreq *= 1 + fmDepth*fmOsc
	}
	c.vcoPhase = dsp.Wrap01(c.vcoPhase + vcoFreq/fs)

	// Step 6: output + anti-alias + colouration.
	out := dsp.ParabolicSin(2 * math.Pi * c.vcoPhase)
	if p.Mult*p.RefFreq > 0.48*fs {
		coef := dsp.Coefficient(1/(2*math.Pi*0.48*fs), fs)
		c.lpfState += (out - c.lpfState) * coef
		out = c.lpfState
	}
	if p.Colored {
		if c.dc.R == 0 {
			c.dc.R = 0.995 // zero-value Channel never goes through dsp.NewDCBlock
		}
		sat := out - out*out*out/3
		out = c.dc.Process(sat)
	}

	c.lastOutput = out
	return out
}

// edgePFD computes the signed error for the edge-mode phase-frequency
// detector: a function of inter-crossing whole-sample counts (spec.md §4.2
// step 2); the crossing instant is not interpolated between samples.
func (c *Channel) edgePFD(refWrapped bool, sensitivity float64) float64 {
	c.refCrossCounter++
	c.vcoCrossCounter++

	var e float64
	if refWrapped {
		// Reference crossed before the VCO: VCO is lagging, push it faster.
		diff := float64(c.refCrossCounter - c.vcoCrossCounter)
		e = dsp.Clamp(diff*sensitivity/64, -1, 1)
		c.refCrossCounter = 0
	}
	if c.vcoPhase < c.prevVCOPhaseForWrap() {
		diff := float64(c.vcoCrossCounter - c.refCrossCounter)
		e += dsp.Clamp(diff*sensitivity/64, -1, 1)
		c.vcoCrossCounter = 0
	}
	return dsp.Clamp(e, -1, 1)
}

// prevVCOPhaseForWrap exists only to make edgePFD's VCO-wrap check read
// naturally; the real bookkeeping is the counters above, since the
// oscillator advances vcoPhase after this is called in Step's ordering. It
// returns the vcoPhase observed on the previous call (a one-sample memory)
// and records the current one; no sub-sample interpolation is done.
func (c *Channel) prevVCOPhaseForWrap() float64 {
	p := c.prevVCORaw
	c.prevVCORaw = c.vcoPhase
	return p
}
