package voice

import (
	"math"
	"testing"

	"plldrift/internal/param"
)

func defaultTrigger(sampleRate float64) TriggerParams {
	return TriggerParams{
		Legato:       false,
		Retrigger:    0,
		GlideTimeSec: 0.05,
		SampleRate:   sampleRate,
		Env1ADSR:     [4]float64{0.01, 0.05, 0.8, 0.2},
		Env1Shapes:   [3]float64{0, 0, 0},
		Env2ADSR:     [4]float64{0.01, 0.05, 0.8, 0.2},
		Env2Shapes:   [3]float64{0, 0, 0},
	}
}

func TestMIDINoteToFreq(t *testing.T) {
	if got := MIDINoteToFreq(69); math.Abs(got-440) > 1e-9 {
		t.Fatalf("A4 should be 440Hz, got %v", got)
	}
	if got := MIDINoteToFreq(81); math.Abs(got-880) > 1e-6 {
		t.Fatalf("an octave up should double frequency, got %v", got)
	}
}

func TestTriggerHardRetriggerSnapsFrequencyImmediately(t *testing.T) {
	v := New(1)
	tp := defaultTrigger(48000)
	v.Trigger(69, 100, tp)
	if got := v.currentFreq(); got != MIDINoteToFreq(69) {
		t.Fatalf("hard retrigger should snap straight to target freq, got %v want %v", got, MIDINoteToFreq(69))
	}
	if !v.IsActive() {
		t.Fatalf("voice should be active immediately after Trigger")
	}
}

func TestTriggerLegatoGlidesWhileEnvelopeStillSounding(t *testing.T) {
	v := New(1)
	tp := defaultTrigger(48000)
	v.Trigger(60, 100, tp)

	// advance a handful of samples so the envelope is clearly past idle/attack-start
	snap := param.New().SnapshotCapture()
	for i := 0; i < 10; i++ {
		v.Process(snap, Params{SampleRate: 48000, TempoBPM: 120, SampleIndex: i, BlockLen: 64})
	}

	legato := tp
	legato.Legato = true
	v.Trigger(72, 100, legato)

	if v.currentFreq() == MIDINoteToFreq(72) {
		t.Fatalf("legato trigger should glide, not snap immediately to the new frequency")
	}
	if v.glideTotal <= 1 {
		t.Fatalf("legato trigger should set up a multi-sample glide, got glideTotal=%v", v.glideTotal)
	}

	// Run the glide to completion and confirm it converges on the new note.
	for i := 0; i < int(v.glideTotal)+2; i++ {
		v.currentFreq()
		v.glideElapsed++
	}
	if got := v.currentFreq(); math.Abs(got-MIDINoteToFreq(72)) > 1e-6 {
		t.Fatalf("glide should converge on the new note's frequency, got %v want %v", got, MIDINoteToFreq(72))
	}
}

func TestTriggerDuringReleaseIsHardRetriggerEvenWithLegato(t *testing.T) {
	v := New(1)
	tp := defaultTrigger(48000)
	v.Trigger(60, 100, tp)
	v.Release()

	legato := tp
	legato.Legato = true
	v.Trigger(72, 100, legato)

	if got := v.currentFreq(); got != MIDINoteToFreq(72) {
		t.Fatalf("legato during release should still hard-retrigger, got %v want %v", got, MIDINoteToFreq(72))
	}
}

func TestPanicSilencesVoiceAndClearsNote(t *testing.T) {
	v := New(1)
	tp := defaultTrigger(48000)
	v.Trigger(60, 100, tp)
	v.Panic()

	if v.IsActive() {
		t.Fatalf("voice should be inactive after Panic")
	}
	if got := v.CurrentNote(); got != 0 {
		t.Fatalf("Panic should clear current note, got %v", got)
	}
}

func TestProcessNeverProducesNonFiniteOutput(t *testing.T) {
	v := New(1)
	store := param.New()
	// push a few parameters toward extremes to stress the signal chain
	store.Set(param.FilterResonance, 0.98)
	store.Set(param.FilterDrive, 20)
	store.Set(param.ColorDistortionAmount, 1)
	store.Set(param.ReverbDecay, 0.99)
	snap := store.SnapshotCapture()

	v.Trigger(40, 127, defaultTrigger(48000))
	v.BeginBlock(snap)
	for i := 0; i < 2048; i++ {
		out := v.Process(snap, Params{SampleRate: 48000, TempoBPM: 120, SampleIndex: i % 64, BlockLen: 64})
		if math.IsNaN(out.L) || math.IsInf(out.L, 0) || math.IsNaN(out.R) || math.IsInf(out.R, 0) {
			t.Fatalf("Process produced non-finite output at sample %d: %+v", i, out)
		}
	}
}

func TestProcessAppliesAmplitudeEnvelopeToOutputGain(t *testing.T) {
	v := New(1)
	store := param.New()
	store.Set(param.MasterVolume, 1)
	snap := store.SnapshotCapture()

	tp := defaultTrigger(48000)
	tp.Env1ADSR = [4]float64{0.001, 0.001, 1, 0.001}
	v.Trigger(69, 127, tp)
	v.BeginBlock(snap)

	// Run well past attack/decay into sustain, then release, and confirm
	// output magnitude drops substantially once the envelope reaches idle.
	var sustained, afterRelease float64
	for i := 0; i < 2000; i++ {
		out := v.Process(snap, Params{SampleRate: 48000, TempoBPM: 120, SampleIndex: i % 64, BlockLen: 64})
		sustained = math.Abs(out.L) + math.Abs(out.R)
	}
	v.Release()
	for i := 0; i < 2000; i++ {
		out := v.Process(snap, Params{SampleRate: 48000, TempoBPM: 120, SampleIndex: i % 64, BlockLen: 64})
		afterRelease = math.Abs(out.L) + math.Abs(out.R)
	}
	if afterRelease > sustained {
		t.Fatalf("output after release completes should not exceed sustained output: sustained=%v afterRelease=%v", sustained, afterRelease)
	}
	if v.IsActive() {
		t.Fatalf("voice should have gone idle after release runs to completion")
	}
}

func TestBeginBlockInterpolatesCutoffAcrossBlock(t *testing.T) {
	v := New(1)
	store := param.New()
	store.Set(param.FilterCutoff, 200)
	store.Advance(1) // one step at 1 Hz spans 200 of the 5 ms time constants: the smoother lands on the write
	snap1 := store.SnapshotCapture()
	v.BeginBlock(snap1)
	first := v.blockCutoffPrev

	store.Set(param.FilterCutoff, 8000)
	store.Advance(1)
	snap2 := store.SnapshotCapture()
	v.BeginBlock(snap2)

	if v.blockCutoffPrev != first {
		t.Fatalf("second BeginBlock should carry forward the previous block's target as the new prev, got %v want %v", v.blockCutoffPrev, first)
	}
	if v.blockCutoffNext != 8000 {
		t.Fatalf("BeginBlock should capture the new target, got %v", v.blockCutoffNext)
	}

	mid := v.Filter.CutoffAt(v.blockCutoffPrev, v.blockCutoffNext, 32, 64)
	if mid <= v.blockCutoffPrev || mid >= v.blockCutoffNext {
		t.Fatalf("mid-block cutoff should lie strictly between prev and next, got %v (prev=%v next=%v)", mid, v.blockCutoffPrev, v.blockCutoffNext)
	}
}
