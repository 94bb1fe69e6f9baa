// Package voice implements the monophonic signal path of spec.md §4.9: one
// PLL, one VPS, one sub-oscillator, a PLL-only formant filter, colouration,
// filter, reverb, envelopes, and the modulation fabric, driven
// sample-by-sample by the engine.
//
// Grounded on the teacher's Synth.AudioCallback (pkg/synth/synth.go), whose
// per-sample loop (compute carrier, compute modulator, mix, soft-clip,
// scale by volume) is the direct ancestor of Process's structure —
// generalized from one FM pair into the full oscillator/filter/reverb
// chain the spec describes.
package voice

import (
	"math"

	"plldrift/internal/color"
	"plldrift/internal/dsp"
	"plldrift/internal/envelope"
	"plldrift/internal/filter"
	"plldrift/internal/formant"
	"plldrift/internal/modfab"
	"plldrift/internal/osc"
	"plldrift/internal/param"
	"plldrift/internal/reverb"
)

// MIDINoteToFreq converts a MIDI note number to Hz (A4=69=440Hz), the same
// formula the teacher's synth.go uses.
func MIDINoteToFreq(note int) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// Voice owns every piece of per-note DSP state described by spec.md §3's
// "Voice state": phase accumulators (inside osc.StereoPLL/VPS/Sub), two
// ADSRs, the moog-ladder stage vector, the reverb's own internal state,
// LFO/mod-seq phases, current note, and glide state. Mutated only on the
// audio thread.
type Voice struct {
	PLL     osc.StereoPLL
	VPS     osc.VPS
	Sub     osc.Sub
	Filter  filter.Moog
	Formant formant.Filter
	Reverb  *reverb.Dattorro
	Color   *color.Chain
	Mod     *modfab.Bank

	Env1 *envelope.ADSR // amplitude envelope
	Env2 *envelope.ADSR // FM-envelope source for PLLFMEnvAmount

	currentNote int

	sourceFreq   float64
	targetFreq   float64
	glideTotal   float64 // samples
	glideElapsed float64

	velocityTarget float64 // 0..1, set on Trigger

	driftPhase float64

	blockCutoffPrev, blockCutoffNext float64
}

// New creates an idle Voice. seed drives the voice's noise/sample-and-hold
// generators deterministically (see internal/modfab, internal/color).
func New(seed int64) *Voice {
	return &Voice{
		Reverb: reverb.New(),
		Color:  color.NewChain(seed),
		Mod:    modfab.NewBank(seed),
		Env1:   envelope.New(48000),
		Env2:   envelope.New(48000),
	}
}

// IsActive reports whether the voice is still producing audible output
// (either playing or releasing).
func (v *Voice) IsActive() bool { return v.Env1.IsActive() }

// CurrentNote returns the MIDI note last passed to Trigger, for telemetry
// (spec.md §5's "current note" bridge field).
func (v *Voice) CurrentNote() int { return v.currentNote }

// TriggerParams bundles the smoothed parameters Trigger needs to decide
// between glide-over-legato and hard retrigger (spec.md §4.9, "Glide/legato").
type TriggerParams struct {
	Legato        bool
	Retrigger     float64 // 0 = hard reset, >0 = soft blend toward 0
	GlideTimeSec  float64
	SampleRate    float64
	Env1ADSR      [4]float64 // attack, decay, sustain, release
	Env1Shapes    [3]float64
	Env2ADSR      [4]float64
	Env2Shapes    [3]float64
}

// Trigger starts or glides into note at the given velocity. When legato is
// enabled and the amplitude envelope is already sounding and not releasing,
// pitch glides rather than retriggering (the Open Question decision: legato
// wins over retrigger, spec.md §9's final open question).
func (v *Voice) Trigger(note, velocity int, p TriggerParams) {
	v.Env1.SetSampleRate(p.SampleRate)
	v.Env2.SetSampleRate(p.SampleRate)
	v.Env1.SetADSR(p.Env1ADSR[0], p.Env1ADSR[1], p.Env1ADSR[2], p.Env1ADSR[3])
	v.Env1.SetShapes(p.Env1Shapes[0], p.Env1Shapes[1], p.Env1Shapes[2])
	v.Env2.SetADSR(p.Env2ADSR[0], p.Env2ADSR[1], p.Env2ADSR[2], p.Env2ADSR[3])
	v.Env2.SetShapes(p.Env2Shapes[0], p.Env2Shapes[1], p.Env2Shapes[2])

	legatoGlide := p.Legato && v.Env1.IsActive() && v.Env1.Stage() != envelope.StageRelease

	v.currentNote = note
	v.velocityTarget = dsp.Clamp(float64(velocity)/127, 0, 1)
	newFreq := MIDINoteToFreq(note)

	if legatoGlide {
		v.sourceFreq = v.currentFreq()
		v.targetFreq = newFreq
		v.glideTotal = math.Max(1, p.GlideTimeSec*p.SampleRate)
		v.glideElapsed = 0
		return
	}

	v.sourceFreq = newFreq
	v.targetFreq = newFreq
	v.glideTotal = 1
	v.glideElapsed = 1

	if p.Retrigger <= 0 {
		v.PLL.Reset()
		v.VPS.Reset()
		v.Sub.Reset()
	} else {
		v.PLL.SoftRetrigger(p.Retrigger)
	}
	v.Env1.Trigger(true)
	v.Env2.Trigger(true)
}

// Release begins the release stage of both envelopes.
func (v *Voice) Release() {
	v.Env1.Release()
	v.Env2.Release()
}

// Panic hard-resets every piece of voice state to quiescent (spec.md §3:
// "reset at explicit user-initiated panic").
func (v *Voice) Panic() {
	v.PLL.Reset()
	v.VPS.Reset()
	v.Sub.Reset()
	v.Filter.Reset()
	v.Formant.Reset()
	v.Reverb.Reset()
	v.Env1.Reset()
	v.Env2.Reset()
	v.Mod.Reset()
	v.currentNote = 0
	v.driftPhase = 0
}

// currentFreq returns the glide-interpolated base frequency.
func (v *Voice) currentFreq() float64 {
	if v.glideTotal <= 0 {
		return v.targetFreq
	}
	t := dsp.Clamp(v.glideElapsed/v.glideTotal, 0, 1)
	return dsp.Lerp(v.sourceFreq, v.targetFreq, t)
}

// Params bundles everything Process needs beyond the parameter snapshot
// itself: sample rate and tempo, both already resolved per-block by the
// engine from transport.State, plus this sample's position within the
// current block (for the filter's block-rate cutoff interpolation, spec.md
// §4.4: "cutoff updates interpolate linearly across the block").
type Params struct {
	SampleRate  float64
	TempoBPM    float64
	SampleIndex int
	BlockLen    int
}

// BeginBlock captures the filter cutoff target at the start of a new block
// so Process can linearly interpolate toward it sample-by-sample rather
// than stepping discontinuously. Call once per block before the first
// Process call.
func (v *Voice) BeginBlock(snap param.Snapshot) {
	target := snap.Get(param.FilterCutoff)
	if v.blockCutoffNext == 0 {
		v.blockCutoffPrev = target
	} else {
		v.blockCutoffPrev = v.blockCutoffNext
	}
	v.blockCutoffNext = target
}

// resolvedPLL collects the smoothed-plus-modulated PLL inputs for one
// sample (spec.md §4.2).
func (v *Voice) resolvedPLL(snap param.Snapshot, internalRate float64) osc.PLLParams {
	get := func(id param.ID) float64 { return snap.Get(id) + v.Mod.Compose(snap, id) }

	discrete := snap.Get(param.PLLMultiplierDiscrete)
	discrete += v.Mod.PLLMultiplierDiscreteVotes(snap)
	discrete = math.Round(dsp.Clamp(discrete, 1, 16))
	continuous := get(param.PLLMultiplierContinuous)

	return osc.PLLParams{
		RefFreq:          v.currentFreq() * math.Pow(2, get(param.PLLRefFreqOffset)/12),
		Mult:             discrete * continuous,
		PD:               osc.PDMode(snap.GetInt(param.PLLPDMode)),
		EdgeSensitivity:  get(param.PLLEdgeSensitivity),
		TrackSpeed:       get(param.PLLTrackSpeed),
		Damping:          get(param.PLLDamping),
		Influence:        get(param.PLLInfluence),
		LoopSaturation:   get(param.PLLLoopSaturation),
		BurstThreshold:   get(param.PLLBurstThreshold),
		BurstAmount:      get(param.PLLBurstAmount),
		BurstGateDamping: snap.GetInt(param.PLLBurstGateByDamping) != 0,
		FMRatio:          get(param.PLLFMRatio),
		FMAmount:         get(param.PLLFMAmount),
		Colored:          snap.GetInt(param.PLLColored) != 0,
		CrossFeedback:    get(param.PLLCrossFeedback),
		SampleRate:       internalRate,
	}
}

// Process advances every piece of state by one DAW-rate sample and returns
// the mixed, mastered stereo output (spec.md §4.9 steps 3.b-3.e). Envelope
// advance and modulation composition happen once per sample; the PLL runs
// at the internal oversampled rate (step 3.c) while VPS/Sub/colouration/
// filter/reverb run once at DAW rate (step 3.d).
func (v *Voice) Process(snap param.Snapshot, p Params) dsp.Stereo {
	v.Env1.Next()
	env2Level := v.Env2.Next()
	v.Mod.Advance(snap, p.SampleRate, p.TempoBPM)

	if v.glideElapsed < v.glideTotal {
		v.glideElapsed++
	}
	freq := v.currentFreq()

	oversample := snap.GetInt(param.MasterOversample)
	if oversample != 1 && oversample != 4 && oversample != 8 && oversample != 16 {
		oversample = 1
	}
	internalRate := p.SampleRate * float64(oversample)

	pllParams := v.resolvedPLL(snap, internalRate)
	stereoPhase := snap.Get(param.PLLStereoPhaseOffset) + v.Mod.Compose(snap, param.PLLStereoPhaseOffset)
	fmEnvAmount := snap.Get(param.PLLFMEnvAmount) + v.Mod.Compose(snap, param.PLLFMEnvAmount)
	envInfluence := env2Level * fmEnvAmount

	driftAmount := snap.Get(param.ColorDriftAmount) + v.Mod.Compose(snap, param.ColorDriftAmount)
	driftRate := snap.Get(param.ColorDriftRate)

	var pllAccum dsp.Stereo
	for i := 0; i < oversample; i++ {
		v.driftPhase = dsp.Wrap01(v.driftPhase + driftRate/internalRate)
		driftLFO := dsp.ParabolicSin(2 * math.Pi * v.driftPhase)
		driftAdd := color.DriftIncrement(driftLFO, driftAmount)

		s := v.PLL.Step(pllParams, stereoPhase, envInfluence, driftAdd)
		pllAccum = pllAccum.Add(s)
	}
	pllOut := pllAccum.Scale(1 / float64(oversample))

	formantMix := snap.Get(param.FormantMix) + v.Mod.Compose(snap, param.FormantMix)
	if formantMix > 0 {
		formantVowel := snap.Get(param.FormantVowel) + v.Mod.Compose(snap, param.FormantVowel)
		formantShift := snap.Get(param.FormantShift)
		v.Formant.SetVowel(formantVowel, formantShift, p.SampleRate)
		formanted := v.Formant.Process((pllOut.L+pllOut.R)*0.5, p.SampleRate)
		pllOut = dsp.Stereo{
			L: dsp.Lerp(pllOut.L, formanted, formantMix),
			R: dsp.Lerp(pllOut.R, formanted, formantMix),
		}
	}

	vpsD := snap.Get(param.VPSD) + v.Mod.Compose(snap, param.VPSD)
	vpsV := snap.Get(param.VPSV) + v.Mod.Compose(snap, param.VPSV)
	vpsOut := v.VPS.Advance(freq*snap.Get(param.VPSRatio), p.SampleRate, vpsD, vpsV,
		snap.Get(param.VPSStereoVOffset), snap.Get(param.VPSFold))

	subOut := v.Sub.Advance(freq, snap.Get(param.SubRatio), p.SampleRate, osc.SubWaveform(snap.GetInt(param.SubWaveform)))

	mixL := pllOut.L*snap.Get(param.PLLVolume) + vpsOut.L*snap.Get(param.VPSVolume) + subOut*snap.Get(param.SubVolume)
	mixR := pllOut.R*snap.Get(param.PLLVolume) + vpsOut.R*snap.Get(param.VPSVolume) + subOut*snap.Get(param.SubVolume)
	mix := dsp.Stereo{L: mixL, R: mixR}

	envLevel := v.Env1.Value()
	pllMono := (pllOut.L + pllOut.R) * 0.5
	colorParams := color.Params{
		RingAmount:       snap.Get(param.ColorRingAmount) + v.Mod.Compose(snap, param.ColorRingAmount),
		FoldAmount:       snap.Get(param.ColorFoldAmount) + v.Mod.Compose(snap, param.ColorFoldAmount),
		NoiseAmount:      snap.Get(param.ColorNoiseAmount) + v.Mod.Compose(snap, param.ColorNoiseAmount),
		TubeAmount:       snap.Get(param.ColorTubeAmount) + v.Mod.Compose(snap, param.ColorTubeAmount),
		DistortionAmount: snap.Get(param.ColorDistortionAmount),
		DistortionGain:   snap.Get(param.ColorDistortionGain),
	}
	colored := dsp.Stereo{
		L: v.Color.Process(mix.L, pllMono, envLevel, colorParams),
		R: v.Color.Process(mix.R, pllMono, envLevel, colorParams),
	}

	cutoffAtSample := v.Filter.CutoffAt(v.blockCutoffPrev, v.blockCutoffNext, p.SampleIndex, p.BlockLen)
	cutoffAtSample += v.Mod.Compose(snap, param.FilterCutoff)
	filtered := v.Filter.Process(colored, cutoffAtSample,
		snap.Get(param.FilterResonance)+v.Mod.Compose(snap, param.FilterResonance),
		snap.Get(param.FilterDrive)+v.Mod.Compose(snap, param.FilterDrive),
		p.SampleRate)

	reverbed := v.Reverb.Process(filtered, reverb.Params{
		PreDelaySec: snap.Get(param.ReverbPreDelay),
		InputHPF:    snap.Get(param.ReverbInputHPF),
		InputLPF:    snap.Get(param.ReverbInputLPF),
		Decay:       snap.Get(param.ReverbDecay) + v.Mod.Compose(snap, param.ReverbDecay),
		Damping:     snap.Get(param.ReverbDamping),
		Mix:         snap.Get(param.ReverbMix) + v.Mod.Compose(snap, param.ReverbMix),
		ModDepth:    snap.Get(param.ReverbModDepth),
		ModRateHz:   snap.Get(param.ReverbModRate),
		SampleRate:  p.SampleRate,
	})

	velGain := v.Env1.SmoothVelocity(v.velocityTarget)
	master := snap.Get(param.MasterVolume)
	gain := envLevel * velGain * master
	out := dsp.Stereo{
		L: dsp.ScrubNonFinite(reverbed.L * gain),
		R: dsp.ScrubNonFinite(reverbed.R * gain),
	}
	return out
}
