package osc

import "plldrift/internal/dsp"

// StereoPLL pairs two Channels with the stereo phase offset and
// cross-feedback wiring described in spec.md §4.2 step 7 and §6's "PLL
// Stereo Phase" destination.
type StereoPLL struct {
	L, R    Channel
	rOffset float64 // stereo phase offset currently applied to R's reference phase
}

// Reset hard-resets both channels.
func (s *StereoPLL) Reset() {
	s.L.Reset()
	s.R.Reset()
	s.rOffset = 0
}

// SoftRetrigger blends both channels toward phase 0.
func (s *StereoPLL) SoftRetrigger(retrigger float64) {
	s.L.SoftRetrigger(retrigger)
	s.R.SoftRetrigger(retrigger)
}

// Step advances both channels by one internal sample. stereoPhaseOffset is
// applied as a reference-phase bias on the right channel only.
func (s *StereoPLL) Step(p PLLParams, stereoPhaseOffset, envInfluence, driftAdd float64) dsp.Stereo {
	prevL, prevR := s.L.lastOutput, s.R.lastOutput

	if stereoPhaseOffset != s.rOffset {
		s.R.refPhase = dsp.Wrap01(s.R.refPhase + stereoPhaseOffset - s.rOffset)
		s.rOffset = stereoPhaseOffset
	}

	lOut := s.L.Step(p, prevR, envInfluence, driftAdd)
	rOut := s.R.Step(p, prevL, envInfluence, driftAdd)
	return dsp.Stereo{L: lOut, R: rOut}
}
