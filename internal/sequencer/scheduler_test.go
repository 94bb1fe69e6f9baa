package sequencer

import (
	"testing"
	"time"

	"plldrift/internal/param"
)

func TestNewSchedulerStartsWithEmptyPattern(t *testing.T) {
	s := NewScheduler()
	if got := s.Current(); got == nil || got.BarIndex != 0 || len(got.Events) != 0 {
		t.Fatalf("NewScheduler should start with an empty bar-0 pattern, got %+v", got)
	}
}

func TestBeginPrepareThenAdvanceSwapsInPreparedBar(t *testing.T) {
	s := NewScheduler()
	snap := param.New().SnapshotCapture()
	tr := testTransport()

	s.BeginPrepare(snap, tr, 1)
	deadline := time.Now().Add(2 * time.Second)
	for s.Advance(1) == false && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := s.Current(); got.BarIndex != 1 {
		t.Fatalf("after Advance(1) succeeds, Current().BarIndex = %v, want 1", got.BarIndex)
	}
}

func TestAdvanceWithNoPendingPatternIsNoop(t *testing.T) {
	s := NewScheduler()
	if s.Advance(5) {
		t.Fatalf("Advance should return false when nothing has been prepared")
	}
	if got := s.Current().BarIndex; got != 0 {
		t.Fatalf("Current() should be untouched by a no-op Advance, got BarIndex=%v", got)
	}
}

func TestAdvanceIgnoresWrongBarIndex(t *testing.T) {
	s := NewScheduler()
	snap := param.New().SnapshotCapture()
	tr := testTransport()

	s.BeginPrepare(snap, tr, 1)
	deadline := time.Now().Add(2 * time.Second)
	for s.pending.Load() == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Advance(99) {
		t.Fatalf("Advance with a mismatched target bar index should not swap")
	}
	if got := s.Current().BarIndex; got != 0 {
		t.Fatalf("Current() should remain at bar 0 after a mismatched Advance, got %v", got)
	}
}
