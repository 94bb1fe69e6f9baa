package config

import (
	"os"
	"path/filepath"
	"testing"

	"plldrift/internal/param"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.cue")

	tun, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tun.Oversample != 4 {
		t.Fatalf("default oversample = %v, want 4", tun.Oversample)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("Load should have written the default tuning file: %v", statErr)
	}
}

func TestValidateRejectsBadOversample(t *testing.T) {
	tun := Tuning{Oversample: 3, SampleRateHint: 48000, BlockLenHint: 128, BarLengthBeats: 4, OutputDevice: "x"}
	got := tun.Validate()
	if !validOversampleRatios[got.Oversample] {
		t.Fatalf("Validate should replace an invalid oversample ratio, got %v", got.Oversample)
	}
}

func TestApplyToStoreWritesMasterOversample(t *testing.T) {
	store := param.New()
	tun := Tuning{Oversample: 8}
	tun.ApplyToStore(store)
	if got := store.Raw(param.MasterOversample); got != 8 {
		t.Fatalf("MasterOversample = %v, want 8", got)
	}
}

func TestDecodeCustomTuningFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.cue")
	custom := `
sampleRateHint: 44100.0
blockLenHint:   512
oversample:     16
outputDevice:   "hw:0"
barLengthBeats: 3
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tun, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tun.Oversample != 16 || tun.OutputDevice != "hw:0" || tun.BarLengthBeats != 3 {
		t.Fatalf("unexpected decode: %+v", tun)
	}
}
