package color

import (
	"math"
	"testing"
)

func TestRingZeroAmountIsPassthrough(t *testing.T) {
	if got := Ring(0.5, 0.9, 0); got != 0.5 {
		t.Fatalf("Ring with amount=0 = %v, want passthrough 0.5", got)
	}
}

func TestRingFullAmountMultipliesByPLLSample(t *testing.T) {
	if got := Ring(0.5, 0.2, 1); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("Ring with amount=1 = %v, want 0.5*0.2=0.1", got)
	}
}

func TestFoldZeroAmountIsPassthrough(t *testing.T) {
	if got := Fold(0.3, 0); got != 0.3 {
		t.Fatalf("Fold with amount=0 = %v, want passthrough 0.3", got)
	}
}

func TestDriftIncrementScalesLinearly(t *testing.T) {
	if got := DriftIncrement(0.5, 0.2); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("DriftIncrement(0.5,0.2) = %v, want 0.1", got)
	}
}

func TestNoiseZeroAmountIsSilent(t *testing.T) {
	n := NewNoise(1)
	if got := n.Process(1, 0); got != 0 {
		t.Fatalf("Noise.Process with amount=0 = %v, want 0", got)
	}
}

func TestNoiseIsGatedByEnvelope(t *testing.T) {
	n := NewNoise(1)
	if got := n.Process(0, 1); got != 0 {
		t.Fatalf("Noise.Process with envelopeLevel=0 = %v, want 0 (fully gated)", got)
	}
}

func TestTubeZeroAmountIsPassthrough(t *testing.T) {
	if got := Tube(0.4, 0); got != 0.4 {
		t.Fatalf("Tube with amount=0 = %v, want passthrough 0.4", got)
	}
}

func TestTubeClipsMoreOnPositiveSide(t *testing.T) {
	pos := Tube(0.9, 1) - 0.9
	neg := Tube(-0.9, 1) - (-0.9)
	if math.Abs(pos) <= math.Abs(neg) {
		t.Fatalf("positive-side compression should be stronger: pos delta %v, neg delta %v", pos, neg)
	}
}

func TestDistortionZeroAmountIsPassthrough(t *testing.T) {
	if got := Distortion(0.5, 0, 10); got != 0.5 {
		t.Fatalf("Distortion with amount=0 = %v, want passthrough 0.5", got)
	}
}

func TestDistortionStaysBounded(t *testing.T) {
	for _, x := range []float64{-1, -0.5, 0, 0.5, 1} {
		got := Distortion(x, 1, 20)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("Distortion(%v,1,20) produced non-finite output %v", x, got)
		}
	}
}

func TestChainProcessIsFinite(t *testing.T) {
	c := NewChain(1)
	p := Params{RingAmount: 0.5, FoldAmount: 0.3, NoiseAmount: 0.1, TubeAmount: 0.5, DistortionAmount: 0.2, DistortionGain: 5}
	for i := 0; i < 1000; i++ {
		got := c.Process(0.3, 0.2, 0.8, p)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("Chain.Process produced non-finite output at step %d: %v", i, got)
		}
	}
}
