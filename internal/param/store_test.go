package param

import "testing"

func TestNewStoreAppliesDefaults(t *testing.T) {
	s := New()
	for _, id := range []ID{FilterCutoff, Env1Sustain, PLLTrackSpeed} {
		sp := s.Spec(id)
		if got := s.Raw(id); got != sp.Default {
			t.Fatalf("Raw(%v) = %v, want default %v", id, got, sp.Default)
		}
	}
}

func TestSetClampsToDeclaredRange(t *testing.T) {
	s := New()
	sp := s.Spec(FilterCutoff)
	s.Set(FilterCutoff, sp.Max+1000)
	if got := s.Raw(FilterCutoff); got != sp.Max {
		t.Fatalf("Set above max should clamp: got %v, want %v", got, sp.Max)
	}
	s.Set(FilterCutoff, sp.Min-1000)
	if got := s.Raw(FilterCutoff); got != sp.Min {
		t.Fatalf("Set below min should clamp: got %v, want %v", got, sp.Min)
	}
}

func TestAdvanceSmoothsContinuousParamsTowardRaw(t *testing.T) {
	s := New()
	sp := s.Spec(FilterCutoff)
	s.Set(FilterCutoff, sp.Max)
	for i := 0; i < 48000; i++ {
		s.Advance(48000)
	}
	if got := s.Smoothed(FilterCutoff); got < sp.Max-1 {
		t.Fatalf("Smoothed value should converge near raw after many time constants, got %v want ~%v", got, sp.Max)
	}
}

func TestAdvanceBypassesSteppedParams(t *testing.T) {
	s := New()
	s.Set(SubWaveform, 1)
	s.Advance(48000)
	if got := s.Smoothed(SubWaveform); got != 1 {
		t.Fatalf("stepped parameter should bypass smoothing entirely, got %v", got)
	}
}

func TestSnapshotCaptureReflectsSmoothedContinuousAndRawStepped(t *testing.T) {
	s := New()
	s.Set(SubWaveform, 1)
	s.Set(FilterCutoff, 1000)
	sn := s.SnapshotCapture()
	if got := sn.GetInt(SubWaveform); got != 1 {
		t.Fatalf("snapshot GetInt(SubWaveform) = %v, want 1", got)
	}
	if got, want := sn.Get(FilterCutoff), s.Smoothed(FilterCutoff); got != want {
		t.Fatalf("snapshot Get(FilterCutoff) = %v, want the smoothed value %v, not the raw write", got, want)
	}
}

func TestRawSnapshotAndApplyRawRoundTrip(t *testing.T) {
	s := New()
	s.Set(FilterCutoff, 1234)
	s.Set(PLLTrackSpeed, 0.75)
	vals := s.RawSnapshot()

	s2 := New()
	s2.ApplyRaw(vals)
	if got := s2.Raw(FilterCutoff); got != s.Raw(FilterCutoff) {
		t.Fatalf("ApplyRaw round-trip mismatch on FilterCutoff: got %v want %v", got, s.Raw(FilterCutoff))
	}
	if got := s2.Raw(PLLTrackSpeed); got != s.Raw(PLLTrackSpeed) {
		t.Fatalf("ApplyRaw round-trip mismatch on PLLTrackSpeed: got %v want %v", got, s.Raw(PLLTrackSpeed))
	}
}

func TestApplyRawIgnoresOutOfRangeTrailingValues(t *testing.T) {
	s := New()
	short := []float64{1, 2, 3}
	s.ApplyRaw(short) // must not panic despite being far shorter than NumSlots()
}

func TestNumSlotsMatchesSnapshotLen(t *testing.T) {
	s := New()
	sn := s.SnapshotCapture()
	if got := sn.Len(); got != s.NumSlots() {
		t.Fatalf("Snapshot.Len() = %v, want NumSlots() = %v", got, s.NumSlots())
	}
}

func TestBeatIDsAreDistinctAcrossDivisions(t *testing.T) {
	seen := map[ID]bool{}
	for _, d := range AllDivisions {
		for i := 0; i < DivisionLen(d); i++ {
			id := BeatID(d, i)
			if seen[id] {
				t.Fatalf("BeatID collision at division %v index %d: id %v already used", d, i, id)
			}
			seen[id] = true
		}
	}
	if len(seen) != NumBeats {
		t.Fatalf("total distinct beat ids = %d, want NumBeats = %d", len(seen), NumBeats)
	}
}

func TestNoteFieldIDLayoutIsContiguousPerNote(t *testing.T) {
	base := NoteFieldID(0, NoteFieldChance)
	for field := 0; field < notePoolFieldCount; field++ {
		if got := NoteFieldID(0, field); got != ID(int(base)+field) {
			t.Fatalf("NoteFieldID(0,%d) = %v, want contiguous offset from base %v", field, got, base)
		}
	}
	if got, want := NoteFieldID(1, NoteFieldChance), ID(int(base)+notePoolFieldCount); got != want {
		t.Fatalf("NoteFieldID for note 1 should start notePoolFieldCount slots after note 0: got %v want %v", got, want)
	}
}

func TestStrengthAndModSeqStepWrapIndices(t *testing.T) {
	s := New()
	sn := s.SnapshotCapture()
	// Strength/ModSeqStep wrap their index per the Snapshot accessor's own
	// modulo, so an out-of-range index must not panic and must match the
	// wrapped in-range lookup.
	if got, want := sn.Strength(NumStrengthSlots), sn.Strength(0); got != want {
		t.Fatalf("Strength(NumStrengthSlots) = %v, want wrapped Strength(0) = %v", got, want)
	}
	if got, want := sn.ModSeqStep(NumModSeqSteps), sn.ModSeqStep(0); got != want {
		t.Fatalf("ModSeqStep(NumModSeqSteps) = %v, want wrapped ModSeqStep(0) = %v", got, want)
	}
}
