package osc

import (
	"math"
	"testing"
)

func baseParams() PLLParams {
	return PLLParams{
		RefFreq:        220,
		Mult:           1,
		PD:             AnalogLikePD,
		TrackSpeed:     0.5,
		Damping:        0.5,
		Influence:      0.2,
		LoopSaturation: 1,
		FMRatio:        1,
		SampleRate:     48000,
	}
}

func TestStepProducesFiniteBoundedOutput(t *testing.T) {
	var c Channel
	p := baseParams()
	for i := 0; i < 10000; i++ {
		out := c.Step(p, 0, 0, 0)
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("Step produced non-finite output at sample %d", i)
		}
		if out < -1.5 || out > 1.5 {
			t.Fatalf("Step output out of expected bounds at sample %d: %v", i, out)
		}
	}
}

func TestResetClearsPhaseAndIntegrator(t *testing.T) {
	var c Channel
	p := baseParams()
	for i := 0; i < 1000; i++ {
		c.Step(p, 0, 0, 0)
	}
	c.Reset()
	if c.refPhase != 0 || c.vcoPhase != 0 || c.integrator != 0 {
		t.Fatalf("Reset left nonzero state: refPhase=%v vcoPhase=%v integrator=%v", c.refPhase, c.vcoPhase, c.integrator)
	}
}

func TestSoftRetriggerBlendsTowardZero(t *testing.T) {
	var c Channel
	c.vcoPhase = 0.8
	c.SoftRetrigger(1)
	if c.vcoPhase != 0.8 {
		t.Fatalf("SoftRetrigger(1) should leave phase unchanged (continue smoothly), got %v", c.vcoPhase)
	}

	c.vcoPhase = 0.8
	c.SoftRetrigger(0)
	if c.vcoPhase != 0 {
		t.Fatalf("SoftRetrigger(0) should fully reset phase to 0, got %v", c.vcoPhase)
	}
}

func TestColoredOutputAppliesDCBlockEvenFromZeroValue(t *testing.T) {
	var c Channel
	p := baseParams()
	p.Colored = true
	var last float64
	for i := 0; i < 5000; i++ {
		last = c.Step(p, 0, 0, 0)
	}
	if c.dc.R != 0.995 {
		t.Fatalf("colored Channel.Step should lazily initialize dc.R to 0.995, got %v", c.dc.R)
	}
	if math.IsNaN(last) || math.IsInf(last, 0) {
		t.Fatalf("colored output should remain finite, got %v", last)
	}
}

func TestLoopCoefficientsIncreaseWithTrackSpeed(t *testing.T) {
	_, kiLow, _ := loopCoefficients(0.1, 0.5)
	_, kiHigh, _ := loopCoefficients(0.9, 0.5)
	if kiHigh <= kiLow {
		t.Fatalf("ki should increase with track speed: low=%v high=%v", kiLow, kiHigh)
	}
}

func TestStereoPLLStepIsCrossCoupled(t *testing.T) {
	var s StereoPLL
	p := baseParams()
	p.CrossFeedback = 0.5
	for i := 0; i < 100; i++ {
		out := s.Step(p, 0.1, 0, 0)
		if math.IsNaN(out.L) || math.IsNaN(out.R) {
			t.Fatalf("StereoPLL.Step produced NaN at sample %d", i)
		}
	}
}

func TestStereoPLLResetClearsBothChannels(t *testing.T) {
	var s StereoPLL
	p := baseParams()
	for i := 0; i < 100; i++ {
		s.Step(p, 0, 0, 0)
	}
	s.Reset()
	if s.L.vcoPhase != 0 || s.R.vcoPhase != 0 {
		t.Fatalf("StereoPLL.Reset should zero both channels' vcoPhase")
	}
}
