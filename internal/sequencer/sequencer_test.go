package sequencer

import (
	"testing"

	"plldrift/internal/param"
	"plldrift/internal/transport"
)

func testTransport() transport.State {
	return transport.State{Playing: true, TempoBPM: 120, SampleRate: 48000}
}

func TestPrepareBarIsDeterministic(t *testing.T) {
	s := param.New()
	s.Set(param.BeatID(4, 0), 100)
	s.Set(param.BeatID(4, 2), 80)
	s.Set(param.NoteFieldID(param.RootNote, param.NoteFieldEnabled), 1)
	s.Set(param.NoteFieldID(param.RootNote, param.NoteFieldChance), 127)
	snap := s.SnapshotCapture()
	tr := testTransport()

	a := PrepareBar(snap, tr, 7)
	b := PrepareBar(snap, tr, 7)

	if len(a.Events) != len(b.Events) {
		t.Fatalf("same snapshot+barIndex produced different event counts: %d vs %d", len(a.Events), len(b.Events))
	}
	for i := range a.Events {
		if a.Events[i] != b.Events[i] {
			t.Fatalf("event %d differs between identical PrepareBar calls: %+v vs %+v", i, a.Events[i], b.Events[i])
		}
	}
}

func TestPrepareBarDifferentBarIndexCanDiffer(t *testing.T) {
	s := param.New()
	for i := 0; i < param.DivisionLen(4); i++ {
		s.Set(param.BeatID(4, i), 64)
	}
	s.Set(param.NoteFieldID(param.RootNote, param.NoteFieldEnabled), 1)
	s.Set(param.NoteFieldID(param.RootNote, param.NoteFieldChance), 127)
	snap := s.SnapshotCapture()
	tr := testTransport()

	seen := map[int]bool{}
	for bar := int64(0); bar < 20; bar++ {
		p := PrepareBar(snap, tr, bar)
		seen[len(p.Events)] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected bar-to-bar variation in event counts across 20 bars with 50%% probability beats, got only %v", seen)
	}
}

func TestPrepareBarZeroTempoProducesEmptyPattern(t *testing.T) {
	s := param.New()
	snap := s.SnapshotCapture()
	tr := transport.State{TempoBPM: 0, SampleRate: 48000}
	p := PrepareBar(snap, tr, 0)
	if p.SamplesPerBar != 0 || len(p.Events) != 0 {
		t.Fatalf("zero-tempo transport should produce an empty pattern, got %+v", p)
	}
}

func TestPrepareBarEventsAreSortedAndWithinBar(t *testing.T) {
	s := param.New()
	for i := 0; i < param.DivisionLen(8); i++ {
		s.Set(param.BeatID(8, i), 100)
	}
	s.Set(param.NoteFieldID(param.RootNote, param.NoteFieldEnabled), 1)
	s.Set(param.NoteFieldID(param.RootNote, param.NoteFieldChance), 127)
	snap := s.SnapshotCapture()
	tr := testTransport()

	p := PrepareBar(snap, tr, 0)
	for i, e := range p.Events {
		if e.StartSample < 0 || e.StartSample >= p.SamplesPerBar {
			t.Fatalf("event %d start sample %d out of [0,%d)", i, e.StartSample, p.SamplesPerBar)
		}
		if i > 0 && e.StartSample < p.Events[i-1].StartSample {
			t.Fatalf("events not sorted by start sample at index %d", i)
		}
	}
}

func TestEventsForBlockSlicesAndRebasesOffsets(t *testing.T) {
	p := Pattern{
		SamplesPerBar: 1000,
		Events: []Event{
			{StartSample: 10, DurationSamples: 5, Note: 60, Velocity: 100},
			{StartSample: 150, DurationSamples: 5, Note: 62, Velocity: 100},
			{StartSample: 300, DurationSamples: 5, Note: 64, Velocity: 100},
		},
	}
	block := p.EventsForBlock(100, 100) // [100,200)
	if len(block) != 1 {
		t.Fatalf("expected exactly 1 event in [100,200), got %d", len(block))
	}
	if block[0].StartSample != 50 {
		t.Fatalf("event start should be rebased relative to block start: got %d, want 50", block[0].StartSample)
	}
	if block[0].Note != 62 {
		t.Fatalf("wrong event selected: got note %d, want 62", block[0].Note)
	}
}

func TestEventsForBlockExcludesBoundaryEnd(t *testing.T) {
	p := Pattern{
		SamplesPerBar: 1000,
		Events: []Event{
			{StartSample: 100, DurationSamples: 5, Note: 60, Velocity: 100},
		},
	}
	block := p.EventsForBlock(0, 100) // [0,100): boundary event at 100 excluded
	if len(block) != 0 {
		t.Fatalf("event exactly at block end should be excluded, got %d events", len(block))
	}
}

func TestEventEndIsStartPlusDuration(t *testing.T) {
	e := Event{StartSample: 10, DurationSamples: 20}
	if got := e.End(); got != 30 {
		t.Fatalf("Event.End() = %v, want 30", got)
	}
}
