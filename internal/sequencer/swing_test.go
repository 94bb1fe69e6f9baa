package sequencer

import "testing"

func TestApplySwingLeavesNonOffbeatsUnchanged(t *testing.T) {
	if got := applySwing(0, 0.75); got != 0 {
		t.Fatalf("applySwing should leave the downbeat unchanged, got %v", got)
	}
	if got := applySwing(0.25, 0.75); got != 0.25 {
		t.Fatalf("applySwing should leave a non-offbeat position unchanged, got %v", got)
	}
}

func TestApplySwingShiftsSecondEighth(t *testing.T) {
	got := applySwing(0.125, 0.75)
	want := 0.125 + (0.75-0.5)*0.25
	if got != want {
		t.Fatalf("applySwing(0.125, 0.75) = %v, want %v", got, want)
	}
}

func TestApplySwingAtNeutral50PercentIsNoop(t *testing.T) {
	if got := applySwing(0.375, 0.5); got != 0.375 {
		t.Fatalf("swing=0.5 should be neutral (no shift), got %v", got)
	}
}

func TestFloorToIntMatchesMathFloorSemantics(t *testing.T) {
	cases := map[float64]float64{
		2.7:  2,
		-2.3: -3,
		0:    0,
		-0.5: -1,
	}
	for in, want := range cases {
		if got := floorToInt(in); got != want {
			t.Fatalf("floorToInt(%v) = %v, want %v", in, got, want)
		}
	}
}
