package sequencer

import (
	"sync/atomic"

	"plldrift/internal/param"
	"plldrift/internal/transport"
)

// Scheduler implements spec.md §4.1's "Double-buffering": prepare_bar for
// bar N+1 runs while bar N plays, and the audio thread swaps to the new
// Pattern at the bar boundary via a lock-free handoff. Grounded on
// IntuitionAmiga-IntuitionEngine's OtoPlayer (audio_backend_oto.go), which
// hands a fresh *SoundChip to the audio callback through atomic.Pointer
// rather than a mutex.
type Scheduler struct {
	current atomic.Pointer[Pattern]
	pending atomic.Pointer[Pattern] // result of the in-flight background prepare
	busy    atomic.Bool             // true while a background prepare is running
}

// NewScheduler returns a Scheduler with an empty bar 0 pattern installed so
// the audio thread always has something to read.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	empty := &Pattern{}
	s.current.Store(empty)
	return s
}

// Current returns the Pattern the audio thread should be reading from.
func (s *Scheduler) Current() *Pattern { return s.current.Load() }

// BeginPrepare kicks off bar barIndex's preparation on a background
// goroutine (editor-class work, never the audio thread itself) — the
// parameter snapshot and transport state must already be bar-boundary
// consistent by the time this is called. It is a no-op if a prepare is
// already in flight (bounded cost makes this "should be impossible", per
// spec.md §4.1, but the guard keeps it safe under adversarial scheduling).
func (s *Scheduler) BeginPrepare(snap param.Snapshot, tr transport.State, barIndex int64) {
	if !s.busy.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.busy.Store(false)
		p := PrepareBar(snap, tr, barIndex)
		s.pending.Store(&p)
	}()
}

// Advance swaps in the prepared pattern for targetBarIndex if it is ready;
// otherwise it leaves Current() untouched so the engine repeats the
// previous bar silently rather than glitching (spec.md §4.1, last
// paragraph).
func (s *Scheduler) Advance(targetBarIndex int64) (swapped bool) {
	p := s.pending.Load()
	if p == nil || p.BarIndex != targetBarIndex {
		return false
	}
	s.current.Store(p)
	s.pending.Store(nil)
	return true
}
