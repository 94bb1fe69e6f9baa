// Package preset implements the serialisable snapshot of spec.md §6's
// "Persistence": parameter scalars, note pool, strength grid, ties mask,
// step values, and octave-randomiser settings all live in param.Store's
// flat scalar array already, so a Preset is simply a named wrapper around
// Store.RawSnapshot's vector — capture/apply round-trips through
// internal/bridge's validated, bar-boundary-safe handoff.
package preset

import (
	"encoding/json"
	"fmt"

	"plldrift/internal/bridge"
	"plldrift/internal/param"
)

// Preset is one serialisable snapshot: a name for the collaborator's
// library UI, plus the full raw scalar vector (spec.md §4, "Preset
// snapshot").
type Preset struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Capture takes a full raw snapshot of store — bypassing smoothing, per
// R1's "lossless parameter round trip" requirement.
func Capture(name string, store *param.Store) Preset {
	return Preset{Name: name, Values: store.RawSnapshot()}
}

// Marshal serialises p to JSON. Wire format is explicitly left to the
// collaborator by spec.md §6 ("format is the collaborator's concern");
// JSON is the stdlib choice used here, since no serialisation library
// appears anywhere in the retrieved pack for this concern.
func (p Preset) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal parses JSON produced by Marshal.
func Unmarshal(data []byte) (Preset, error) {
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("preset: unmarshal: %w", err)
	}
	return p, nil
}

// Submit validates p against store's declared ranges and queues it on b for
// application at the next bar boundary (spec.md §7's "Invalid preset
// snapshot" is rejected here, before handoff).
func (p Preset) Submit(b *bridge.Bridge, store *param.Store) error {
	if err := b.SubmitPreset(store, p.Values); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}

// ApplyImmediately writes p's values directly into store without going
// through the bar-boundary handoff — intended for a freshly constructed,
// not-yet-running engine (R1's "apply on a fresh engine"), where there is
// no audio thread racing the write.
func (p Preset) ApplyImmediately(store *param.Store) error {
	if len(p.Values) != store.NumSlots() {
		return fmt.Errorf("preset %q: length mismatch: got %d want %d", p.Name, len(p.Values), store.NumSlots())
	}
	store.ApplyRaw(p.Values)
	return nil
}
