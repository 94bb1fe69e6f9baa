package bridge

import (
	"math"
	"testing"

	"plldrift/internal/param"
)

func TestSubmitPresetRejectsWrongLength(t *testing.T) {
	store := param.New()
	b := New()
	err := b.SubmitPreset(store, []float64{1, 2, 3})
	if err == nil {
		t.Fatalf("expected an error for a mismatched-length preset vector")
	}
}

func TestSubmitPresetRejectsOutOfRangeScalar(t *testing.T) {
	store := param.New()
	b := New()
	vals := store.RawSnapshot()
	vals[int(param.MasterVolume)] = 999999
	if err := b.SubmitPreset(store, vals); err == nil {
		t.Fatalf("expected an error for an out-of-range scalar")
	}
}

func TestSubmitPresetRejectsNonFiniteScalar(t *testing.T) {
	store := param.New()
	b := New()
	vals := store.RawSnapshot()
	vals[int(param.MasterVolume)] = math.NaN()
	if err := b.SubmitPreset(store, vals); err == nil {
		t.Fatalf("expected an error for a NaN scalar")
	}
}

func TestApplyPresetIsVisibleOnlyAfterTryApply(t *testing.T) {
	store := param.New()
	b := New()
	vals := store.RawSnapshot()
	vals[int(param.MasterVolume)] = 0.33
	if err := b.SubmitPreset(store, vals); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}

	if got := store.Raw(param.MasterVolume); got == 0.33 {
		t.Fatalf("preset should not take effect before TryApplyPreset, got %v", got)
	}

	if applied := b.TryApplyPreset(store); !applied {
		t.Fatalf("TryApplyPreset should report a pending preset was applied")
	}
	if got := store.Raw(param.MasterVolume); got != 0.33 {
		t.Fatalf("MasterVolume should be 0.33 after apply, got %v", got)
	}
	if v := b.PresetVersion(); v != 1 {
		t.Fatalf("preset version should be 1 after one applied preset, got %v", v)
	}

	if applied := b.TryApplyPreset(store); applied {
		t.Fatalf("a second TryApplyPreset with nothing pending should be a no-op")
	}
}

func TestTelemetryRoundTrips(t *testing.T) {
	b := New()
	if n := b.CurrentNote(); n != -1 {
		t.Fatalf("current note should start at -1, got %v", n)
	}

	b.RecordPeak(0.5, -0.25)
	if l, r := b.Peak(); l != 0.5 || r != -0.25 {
		t.Fatalf("peak round-trip failed: got %v %v", l, r)
	}

	b.RecordCPULoad(0.75)
	if got := b.CPULoad(); got != 0.75 {
		t.Fatalf("cpu load round-trip failed: got %v", got)
	}

	b.RecordCurrentNote(60)
	if got := b.CurrentNote(); got != 60 {
		t.Fatalf("current note round-trip failed: got %v", got)
	}
}
