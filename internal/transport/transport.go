// Package transport defines the small host-timing value spec.md §3 calls
// "Transport": the narrow interface through which a collaborator host (or
// the engine's own free-running clock) communicates tempo and play state.
package transport

// State mirrors spec.md §3 exactly.
type State struct {
	Playing      bool
	TempoBPM     float64
	SampleRate   float64
	BarPosition  float64 // [0,1), maintained by the engine unless host-supplied
	HostSupplied bool    // true if BarPosition came from the host this block
}

// SamplesPerBar returns the length of one 4/4 bar at the current tempo and
// sample rate (spec.md §4.1, "samples_per_bar").
func (s State) SamplesPerBar() int64 {
	if s.TempoBPM <= 0 {
		return 0
	}
	secondsPerBar := 4 * 60 / s.TempoBPM
	return int64(s.SampleRate*secondsPerBar + 0.5)
}
