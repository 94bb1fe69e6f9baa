// Package param implements the ~250-scalar parameter store described in
// spec.md §3 ("Parameter snapshot") and §4.10: one atomic per scalar on the
// editor-write side, one-pole smoothing on the audio-read side, and an
// immutable-per-block Snapshot that the rest of the engine consumes.
//
// Grounded on the teacher's SmoothValue (pkg/synth/synth.go), which stored
// a bare float64 with a no-op Update — generalized here into a real atomic
// + one-pole pair, matching the teacher's same two-method (Set/Get) shape.
package param

import (
	"math"
	"sync/atomic"

	"plldrift/internal/dsp"
)

// Store is the editor-writable, audio-readable parameter table. Every
// scalar is an independent atomic; cross-parameter consistency is only
// guaranteed at the Snapshot boundary, taken once per block by the audio
// thread (internal/engine.ProcessBlock).
type Store struct {
	specs []Spec
	raw   []atomic.Uint64 // bit pattern of the float64 raw (editor-written) value
	smoo  []dsp.OnePole   // audio-thread-only state, stepped by Advance
}

// New creates a Store with every scalar set to its declared default.
func New() *Store {
	specs := buildSpecs()
	s := &Store{
		specs: specs,
		raw:   make([]atomic.Uint64, len(specs)),
		smoo:  make([]dsp.OnePole, len(specs)),
	}
	for i, sp := range specs {
		s.raw[i].Store(math.Float64bits(sp.Default))
		s.smoo[i].Reset(sp.Default)
	}
	return s
}

// Spec returns the declared metadata for id.
func (s *Store) Spec(id ID) Spec { return s.specs[int(id)] }

// Set performs an atomic, range-clamped write (editor-class; §7 "Parameter
// out of declared range": clamped, no error).
func (s *Store) Set(id ID, v float64) {
	sp := s.specs[int(id)]
	v = dsp.Clamp(v, sp.Min, sp.Max)
	s.raw[int(id)].Store(math.Float64bits(v))
}

// Raw reads the latest editor-written value directly, bypassing smoothing;
// used for stepped/bool parameters and for capturing presets (§4.10:
// "Discrete parameters bypass smoothing").
func (s *Store) Raw(id ID) float64 {
	return math.Float64frombits(s.raw[int(id)].Load())
}

// Advance steps every continuous parameter's smoother one step toward its
// raw value, where one step lasts 1/sampleRate seconds, and snaps every
// stepped/bool smoother to its raw value. The engine calls it once per
// block, with the block rate (sample rate / block length), before taking
// its snapshot.
func (s *Store) Advance(sampleRate float64) {
	for i := range s.specs {
		sp := s.specs[i]
		if sp.Kind != KindContinuous {
			s.smoo[i].Reset(math.Float64frombits(s.raw[i].Load()))
			continue
		}
		tau := sp.SmoothingSec
		if tau <= 0 {
			tau = defaultSmoothingSec
		}
		coef := dsp.Coefficient(tau, sampleRate)
		s.smoo[i].Step(math.Float64frombits(s.raw[i].Load()), coef)
	}
}

// Smoothed returns the current smoothed value for id (audio-thread read).
func (s *Store) Smoothed(id ID) float64 {
	return s.smoo[int(id)].Value()
}

// SnapshotCapture copies every smoothed+raw value into a flat Snapshot
// (§3 invariant: "every realtime read is of a single well-defined value").
// Taken once per block by the audio thread; continuous parameters read the
// smoother, so a Set is reflected only after Advance has moved it.
func (s *Store) SnapshotCapture() Snapshot {
	vals := make([]float64, len(s.specs))
	for i := range s.specs {
		if s.specs[i].Kind == KindContinuous {
			vals[i] = s.smoo[i].Value()
		} else {
			vals[i] = math.Float64frombits(s.raw[i].Load())
		}
	}
	return Snapshot{vals: vals, specs: s.specs}
}

// RawSnapshot captures every editor-written raw scalar verbatim, ignoring
// smoothing state entirely — used by preset capture (§4, "Preset snapshot"),
// where round-tripping must reproduce exactly what the editor wrote (R1).
func (s *Store) RawSnapshot() []float64 {
	vals := make([]float64, len(s.specs))
	for i := range s.specs {
		vals[i] = math.Float64frombits(s.raw[i].Load())
	}
	return vals
}

// ApplyRaw writes a full raw-value vector back into the store atomically
// per-scalar (still not cross-parameter-atomic; callers needing bar-aligned
// atomicity should route through internal/bridge's preset handoff).
func (s *Store) ApplyRaw(vals []float64) {
	for i, v := range vals {
		if i >= len(s.specs) {
			break
		}
		sp := s.specs[i]
		v = dsp.Clamp(v, sp.Min, sp.Max)
		s.raw[i].Store(math.Float64bits(v))
	}
}

// NumSlots returns the total flat parameter count, for callers validating
// a serialized snapshot's length (§7 "Invalid preset snapshot").
func (s *Store) NumSlots() int { return len(s.specs) }

// Snapshot is the immutable-per-block view consumed by Sequencer/Voice.
type Snapshot struct {
	vals  []float64
	specs []Spec
}

// Get returns the captured value for id.
func (sn Snapshot) Get(id ID) float64 { return sn.vals[int(id)] }

// GetInt is a convenience for stepped/bool parameters.
func (sn Snapshot) GetInt(id ID) int { return int(sn.vals[int(id)] + 0.5) }

// BeatProbability returns the 0-127 probability for (division, index).
func (sn Snapshot) BeatProbability(d Division, index int) float64 {
	return sn.vals[int(BeatID(d, index))]
}

// NoteField returns one field of a note-pool entry.
func (sn Snapshot) NoteField(note, field int) float64 {
	return sn.vals[int(NoteFieldID(note, field))]
}

// Strength returns the strength-grid value at position i (0..95).
func (sn Snapshot) Strength(i int) float64 {
	return sn.vals[int(StrengthID(i%NumStrengthSlots))]
}

// ModSeqStep returns the bipolar value of step i (0..15).
func (sn Snapshot) ModSeqStep(i int) float64 {
	return sn.vals[int(ModSeqStepID(i%NumModSeqSteps))]
}

// Len returns the flat scalar count backing this snapshot.
func (sn Snapshot) Len() int { return len(sn.vals) }
