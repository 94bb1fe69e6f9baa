// Package bridge implements the editor/audio handoff of spec.md §5: a
// wait-free single-slot preset handoff consumed at bar boundaries, and the
// lock-free telemetry atomics (peak, CPU load, current note, preset
// version) that tolerate stale reads.
//
// Grounded on IntuitionAmiga-IntuitionEngine's pervasive atomic.Bool/
// atomic.Uint32/atomic.Uint64 cross-thread signalling style (cpu_ie64.go,
// cpu_m68k.go) and on internal/sequencer.Scheduler's atomic.Pointer
// single-slot handoff (itself grounded on the teacher's OtoPlayer), applied
// here to a full parameter snapshot instead of a Pattern.
package bridge

import (
	"math"
	"sync/atomic"

	"plldrift/internal/param"
)

// PresetRejectedError explains why SubmitPreset refused a snapshot (spec.md
// §7, "Invalid preset snapshot ... rejected at the editor thread before
// handoff; audio thread never observes partial snapshots").
type PresetRejectedError struct {
	Reason string
}

func (e *PresetRejectedError) Error() string { return "preset rejected: " + e.Reason }

// Bridge owns every piece of shared state spec.md §5 describes as crossing
// the editor/audio boundary outside the parameter store's own per-scalar
// atomics: the single-slot preset handoff and the telemetry counters.
type Bridge struct {
	pending atomic.Pointer[[]float64] // editor-submitted, not yet applied

	version atomic.Uint64 // bumped each time a preset is actually applied

	peakL, peakR atomic.Uint64 // float64 bits
	cpuLoad      atomic.Uint64 // float64 bits, 0..1+ (>1 means overrun)
	currentNote  atomic.Int32  // -1 when no note sounding
}

// New returns a Bridge with no preset pending and telemetry zeroed.
func New() *Bridge {
	b := &Bridge{}
	b.currentNote.Store(-1)
	return b
}

// SubmitPreset validates a raw parameter vector against store's declared
// ranges and, if valid, installs it as the pending preset (editor-class
// call, never invoked from the audio thread). A prior unconsumed pending
// preset is silently overwritten — the audio thread only ever wants the
// latest.
func (b *Bridge) SubmitPreset(store *param.Store, vals []float64) error {
	if len(vals) != store.NumSlots() {
		return &PresetRejectedError{Reason: "length mismatch"}
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &PresetRejectedError{Reason: "non-finite scalar"}
		}
		sp := store.Spec(param.ID(i))
		if v < sp.Min || v > sp.Max {
			return &PresetRejectedError{Reason: "scalar out of declared range"}
		}
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	b.pending.Store(&cp)
	return nil
}

// TryApplyPreset is called by the audio thread at a bar boundary (spec.md
// §5c: "a preset applied at bar boundary B is visible to every sample at
// position >= B"). If a preset is pending it is applied via ApplyRaw and
// the preset version counter is bumped; otherwise this is a no-op.
func (b *Bridge) TryApplyPreset(store *param.Store) bool {
	p := b.pending.Swap(nil)
	if p == nil {
		return false
	}
	store.ApplyRaw(*p)
	b.version.Add(1)
	return true
}

// PresetVersion returns the count of presets actually applied so far
// (monotonic, lock-free, stale-tolerant per spec.md §5).
func (b *Bridge) PresetVersion() uint64 { return b.version.Load() }

// RecordPeak is called once per block by the audio thread with the block's
// peak absolute sample value per channel.
func (b *Bridge) RecordPeak(l, r float64) {
	b.peakL.Store(math.Float64bits(l))
	b.peakR.Store(math.Float64bits(r))
}

// Peak returns the most recently recorded per-channel peak (editor-thread
// read; may be one block stale).
func (b *Bridge) Peak() (l, r float64) {
	return math.Float64frombits(b.peakL.Load()), math.Float64frombits(b.peakR.Load())
}

// RecordCPULoad is called once per block by the audio thread with the
// fraction of the block's deadline consumed (>1 indicates an overrun,
// spec.md §7's "Transient realtime issue").
func (b *Bridge) RecordCPULoad(frac float64) {
	b.cpuLoad.Store(math.Float64bits(frac))
}

// CPULoad returns the most recently recorded CPU-load fraction.
func (b *Bridge) CPULoad() float64 { return math.Float64frombits(b.cpuLoad.Load()) }

// RecordCurrentNote is called by the audio thread whenever the sounding
// note changes; note is -1 when nothing is sounding.
func (b *Bridge) RecordCurrentNote(note int) { b.currentNote.Store(int32(note)) }

// CurrentNote returns the most recently recorded sounding note, or -1.
func (b *Bridge) CurrentNote() int { return int(b.currentNote.Load()) }
