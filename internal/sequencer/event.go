// Package sequencer implements the stochastic bar-level pattern generator
// of spec.md §4.1: beat-grid competition, weighted note selection, and
// timing/velocity/duration humanisation.
package sequencer

// Event is a scheduled note, positioned in samples within the bar it was
// produced for (spec.md §3 "Scheduled event").
type Event struct {
	StartSample     int64
	DurationSamples int64
	Note            int
	Velocity        int
	ShiftSamples    int64 // signed position-humaniser offset, already applied to StartSample
}

// End returns the sample one past the event's last sample.
func (e Event) End() int64 { return e.StartSample + e.DurationSamples }
