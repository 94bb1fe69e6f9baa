package modfab

import (
	"testing"

	"plldrift/internal/param"
)

func TestBankComposeSumsMultipleSlotsOntoSameDestination(t *testing.T) {
	store := param.New()
	store.Set(param.LFO1Dest1, float64(param.DestFilterCutoff))
	store.Set(param.LFO1Amt1, 1)
	store.Set(param.LFO2Dest1, float64(param.DestFilterCutoff))
	store.Set(param.LFO2Amt1, 1)
	store.Advance(1) // one step at 1 Hz spans 200 of the 5 ms time constants: smoothers land on the writes
	snap := store.SnapshotCapture()

	b := NewBank(1)
	b.lfoOut = [3]float64{0.5, 0.25, 0}

	got := b.Compose(snap, param.FilterCutoff)
	want := 0.75
	if got != want {
		t.Fatalf("Compose summed contributions = %v, want %v", got, want)
	}
}

func TestBankComposeIgnoresDestNone(t *testing.T) {
	store := param.New()
	snap := store.SnapshotCapture()

	b := NewBank(1)
	b.lfoOut = [3]float64{1, 1, 1}

	if got := b.Compose(snap, param.FilterCutoff); got != 0 {
		t.Fatalf("Compose with every slot set to DestNone should contribute 0, got %v", got)
	}
}

func TestBankComposeIncludesModSeqSlot(t *testing.T) {
	store := param.New()
	store.Set(param.ModSeqDest, float64(param.DestReverbMix))
	store.Set(param.ModSeqAmt, 0.5)
	store.Advance(1) // one step at 1 Hz spans 200 of the 5 ms time constants: smoothers land on the writes
	snap := store.SnapshotCapture()

	b := NewBank(1)
	b.seqOut = 1

	got := b.Compose(snap, param.ReverbMix)
	want := 0.5
	if got != want {
		t.Fatalf("Compose should fold in the mod-seq's own slot, got %v want %v", got, want)
	}
}

func TestBankDiscreteVotesOnlyCountDiscreteDestination(t *testing.T) {
	store := param.New()
	store.Set(param.LFO1Dest1, float64(param.DestPLLMultiplierDiscrete))
	store.Set(param.LFO1Amt1, 1)
	store.Set(param.LFO2Dest1, float64(param.DestFilterCutoff)) // should not count
	store.Set(param.LFO2Amt1, 1)
	store.Advance(1) // one step at 1 Hz spans 200 of the 5 ms time constants: smoothers land on the writes
	snap := store.SnapshotCapture()

	b := NewBank(1)
	b.lfoOut = [3]float64{1, 1, 0}

	got := b.PLLMultiplierDiscreteVotes(snap)
	if got != 1 {
		t.Fatalf("discrete votes = %v, want 1 (only LFO1's slot targets the discrete destination)", got)
	}
}
