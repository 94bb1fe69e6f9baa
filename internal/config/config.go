// Package config loads the optional on-disk tuning file (bar-length
// overrides, oversampling ratio, output-device hints) the ambient stack
// expansion adds on top of spec.md's parameter surface. Grounded on
// c-goetz-hibercounter's config.go (default-write-then-read pattern), but
// using cuelang.org/go/cue instead of encoding/json for parsing, since CUE
// is the config library the pack's dependency graph actually carries.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"plldrift/internal/param"
)

// defaultTuning is written to disk the first time Load runs against a
// missing path, mirroring hibercounter's ReadConfig behavior.
const defaultTuning = `
sampleRateHint: 48000.0
blockLenHint:   256
oversample:     4
outputDevice:   "default"
barLengthBeats: 4
`

// validOversampleRatios are the only ratios spec.md §4.9 names.
var validOversampleRatios = map[int]bool{1: true, 4: true, 8: true, 16: true}

// Tuning is the decoded shape of the on-disk file. Every field is a hint:
// nothing here is required for correct playback, and Validate always
// returns a usable Tuning even when the file is malformed in a field or
// two.
type Tuning struct {
	SampleRateHint float64 `json:"sampleRateHint"`
	BlockLenHint   int     `json:"blockLenHint"`
	Oversample     int     `json:"oversample"`
	OutputDevice   string  `json:"outputDevice"`
	BarLengthBeats int     `json:"barLengthBeats"`
}

// Validate clamps or replaces out-of-range fields with sane defaults
// rather than erroring — an ambient tuning file is advisory, not part of
// the declared parameter surface's strict range checking (spec.md §7).
func (t Tuning) Validate() Tuning {
	if !validOversampleRatios[t.Oversample] {
		t.Oversample = 4
	}
	if t.SampleRateHint <= 0 {
		t.SampleRateHint = 48000
	}
	if t.BlockLenHint <= 0 {
		t.BlockLenHint = 256
	}
	if t.BarLengthBeats <= 0 {
		t.BarLengthBeats = 4
	}
	if t.OutputDevice == "" {
		t.OutputDevice = "default"
	}
	return t
}

// ApplyToStore writes the tuning file's oversampling hint into store as the
// startup default for MasterOversample; the other fields are consumed by
// cmd/plldriftd's audio-backend adapter, outside the parameter surface.
func (t Tuning) ApplyToStore(store *param.Store) {
	store.Set(param.MasterOversample, float64(t.Oversample))
}

// Load reads and decodes path, writing defaultTuning first if the file
// doesn't yet exist.
func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Tuning{}, fmt.Errorf("config: reading tuning file: %w", err)
		}
		if werr := os.WriteFile(path, []byte(defaultTuning), 0o644); werr != nil {
			return Tuning{}, fmt.Errorf("config: writing default tuning file: %w", werr)
		}
		data = []byte(defaultTuning)
	}
	return decode(data)
}

func decode(data []byte) (Tuning, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return Tuning{}, fmt.Errorf("config: parsing tuning file: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Tuning{}, fmt.Errorf("config: tuning file is incomplete: %w", err)
	}
	var t Tuning
	if err := value.Decode(&t); err != nil {
		return Tuning{}, fmt.Errorf("config: decoding tuning file: %w", err)
	}
	return t.Validate(), nil
}
