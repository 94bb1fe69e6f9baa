// Package reverb implements the Dattorro plate reverb of spec.md §4.5:
// pre-delay, input tone shaping, four modulated allpass diffusers, two
// cross-coupled tanks with decay damping, and an output tap matrix.
//
// Delay lengths below are the classic Dattorro plate constants, in samples
// at the 48kHz reference rate (spec.md §4.5: "sized for 48kHz reference and
// linearly interpolated when the effective sample rate differs").
package reverb

import (
	"math"

	"plldrift/internal/dsp"
)

const refRate = 48000.0

var (
	inputDiffusion1 = [2]int{142, 107}
	inputDiffusion2 = [2]int{379, 277}

	tankDelayA = [2]int{672, 908} // left tank: first long delay, decay diffuser 2 delay
	tankDelayB = [2]int{1800, 2656}

	decayDiffusion1 = [2]int{1341, 1817}
)

// delayLine is a fixed-length circular buffer with linear interpolation for
// fractional (sample-rate-adjusted) read positions.
type delayLine struct {
	buf   []float64
	write int
}

func newDelay(refSamples int) *delayLine {
	// Allocate generously (2x reference length) so a lower effective sample
	// rate never needs more history than is available; higher rates read
	// with a fractional stride instead of growing the buffer (§4.5: "fixed-
	// length circular buffers ... linearly interpolated when the effective
	// sample rate differs").
	n := refSamples*2 + 4
	return &delayLine{buf: make([]float64, n)}
}

func (d *delayLine) push(x float64) {
	d.buf[d.write] = x
	d.write = (d.write + 1) % len(d.buf)
}

func (d *delayLine) reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.write = 0
}

func (d *delayLine) readFrac(delaySamples float64) float64 {
	n := len(d.buf)
	pos := float64(d.write) - delaySamples
	for pos < 0 {
		pos += float64(n)
	}
	i0 := int(pos) % n
	frac := pos - math.Floor(pos)
	i1 := (i0 + 1) % n
	return dsp.Lerp(d.buf[i0], d.buf[i1], frac)
}

// allpass is a modulated allpass diffuser stage.
type allpass struct {
	d       *delayLine
	gain    float64
	baseLen float64
}

func newAllpass(refSamples int, gain float64) *allpass {
	return &allpass{d: newDelay(refSamples), gain: gain, baseLen: float64(refSamples)}
}

func (a *allpass) reset() {
	a.d.reset()
}

func (a *allpass) process(x, rateScale, modOffset float64) float64 {
	delay := a.baseLen*rateScale + modOffset
	if delay < 1 {
		delay = 1
	}
	delayed := a.d.readFrac(delay)
	y := -a.gain*x + delayed
	a.d.push(x + a.gain*y)
	return y
}

// Dattorro holds the full reverb signal chain.
type Dattorro struct {
	preDelay *delayLine

	inHPF, inLPF dsp.OnePole

	diff1, diff2 [2]*allpass // input diffusers

	decayDiff [2]*allpass // decay diffusers in the tank
	tankA     [2]*delayLine
	tankB     [2]*delayLine
	damping   [2]dsp.OnePole

	modPhase float64

	lastTankOut [2]float64
}

// New builds the reverb with buffers sized for the 48kHz reference rate; the
// actual sample rate is taken from Params.SampleRate on each Process call.
func New() *Dattorro {
	r := &Dattorro{
		preDelay: newDelay(int(0.1 * refRate)),
	}
	for i := 0; i < 2; i++ {
		r.diff1[i] = newAllpass(inputDiffusion1[i], 0.75)
		r.diff2[i] = newAllpass(inputDiffusion2[i], 0.625)
		r.decayDiff[i] = newAllpass(decayDiffusion1[i], 0.7)
		r.tankA[i] = newDelay(tankDelayA[i])
		r.tankB[i] = newDelay(tankDelayB[i])
	}
	return r
}

// Reset clears every delay-line write cursor and buffer, the input/damping
// filter states, and the modulation phase (spec.md §3 voice state: "the
// reverb delay-line write cursors and modulation phase"), used on explicit
// user-initiated panic.
func (r *Dattorro) Reset() {
	r.preDelay.reset()
	r.inHPF.Reset(0)
	r.inLPF.Reset(0)
	for i := 0; i < 2; i++ {
		r.diff1[i].reset()
		r.diff2[i].reset()
		r.decayDiff[i].reset()
		r.tankA[i].reset()
		r.tankB[i].reset()
		r.damping[i].Reset(0)
	}
	r.modPhase = 0
	r.lastTankOut = [2]float64{}
}

// Params bundles the smoothed parameters consumed per block (spec.md §4.5:
// "Mix and decay parameters are smoothed over 50ms").
type Params struct {
	PreDelaySec float64
	InputHPF    float64
	InputLPF    float64
	Decay       float64
	Damping     float64
	Mix         float64
	ModDepth    float64
	ModRateHz   float64
	SampleRate  float64
}

// Process runs one stereo sample through the full plate topology.
func (r *Dattorro) Process(in dsp.Stereo, p Params) dsp.Stereo {
	fs := p.SampleRate
	if fs <= 0 {
		fs = refRate
	}
	rateScale := refRate / fs

	mono := (in.L + in.R) * 0.5

	r.preDelay.push(mono)
	delayed := r.preDelay.readFrac(p.PreDelaySec * fs)

	hpfCoef := dsp.Coefficient(1/(2*math.Pi*math.Max(p.InputHPF, 1)), fs)
	r.inHPF.Step(delayed, hpfCoef)
	hp := delayed - r.inHPF.Value()

	lpfCoef := dsp.Coefficient(1/(2*math.Pi*math.Max(p.InputLPF, 1)), fs)
	lp := r.inLPF.Step(hp, lpfCoef)

	r.modPhase = dsp.Wrap01(r.modPhase + p.ModRateHz/fs)
	mod := dsp.ParabolicSin(2 * math.Pi * r.modPhase) * p.ModDepth * 8

	x := lp
	for i := 0; i < 2; i++ {
		x = r.diff1[i].process(x, rateScale, mod)
	}
	for i := 0; i < 2; i++ {
		x = r.diff2[i].process(x, rateScale, mod)
	}

	decay := dsp.Clamp(p.Decay, 0, 0.999)
	damp := dsp.Clamp(p.Damping, 0, 1)

	// Two cross-coupled tanks: tank A's output feeds tank B's input and
	// vice versa, each with its own decay-diffuser/damping stage.
	inA := x + r.tankTap(1)*decay
	inB := x + r.tankTap(0)*decay

	outs := [2]float64{}
	for i, in := range [2]float64{inA, inB} {
		d := r.decayDiff[i].process(in, rateScale, 0)
		dampCoef := dsp.Coefficient(1/(2*math.Pi*(200+damp*8000)), fs)
		r.damping[i].Step(d, dampCoef)
		damped := r.damping[i].Value() * decay
		r.tankA[i].push(damped)
		a := r.tankA[i].readFrac(float64(tankDelayA[i]) * rateScale)
		r.tankB[i].push(a)
		b := r.tankB[i].readFrac(float64(tankDelayB[i]) * rateScale)
		outs[i] = b
	}
	r.lastTankOut = outs

	wetL := 0.6*outs[0] + 0.4*outs[1]
	wetR := 0.6*outs[1] + 0.4*outs[0]

	mix := dsp.Clamp(p.Mix, 0, 1)
	return dsp.Stereo{
		L: dsp.Lerp(in.L, wetL, mix),
		R: dsp.Lerp(in.R, wetR, mix),
	}
}

// tankTap reads the previous sample's tank output for the cross-coupling
// feedback (the "two cross-coupled tanks" wiring in spec.md §4.5).
func (r *Dattorro) tankTap(i int) float64 {
	return r.lastTankOut[i]
}
