package modfab

import (
	"plldrift/internal/dsp"
	"plldrift/internal/param"
)

// StepSeq is the 16-step tempo-synced modulation sequencer of spec.md §4.8:
// 16 bipolar steps, a tie mask, division, and slew time.
type StepSeq struct {
	phase float64 // 0..16
	slew  dsp.OnePole
}

func (s *StepSeq) Reset() {
	s.phase = 0
}

// Advance steps the sequencer's phase by one sample at the division's rate
// and returns the current output: if step i's own tie bit is set, a linear
// interpolation from step[i] toward step[i+1] using the fractional phase,
// otherwise a one-pole slew toward step[i] with ModSeqSlewMS as its time
// constant.
func (s *StepSeq) Advance(snap param.Snapshot, sampleRate, tempoBPM float64) float64 {
	division := param.Division(snap.GetInt(param.ModSeqDivision))
	n := float64(param.DivisionLen(division))

	// One 16-step cycle spans the division's own bar fraction: division==1
	// (whole bar) takes a full bar per cycle, finer divisions scale down.
	barHz := tempoBPM / 60 / 4
	cycleHz := barHz * n
	phaseInc := cycleHz * 16 / sampleRate

	i := int(s.phase)
	if i >= 16 {
		i = 15
	}
	frac := s.phase - float64(i)

	tieMask := snap.GetInt(param.ModSeqTieMask)
	cur := snap.ModSeqStep(i)

	var out float64
	if tieMask&(1<<uint(i)) != 0 {
		next := snap.ModSeqStep((i + 1) % 16)
		out = dsp.Lerp(cur, next, frac)
		s.slew.Reset(out)
	} else {
		slewMS := snap.Get(param.ModSeqSlewMS)
		out = s.slew.Step(cur, dsp.Coefficient(slewMS/1000, sampleRate))
	}

	s.phase += phaseInc
	if s.phase >= 16 {
		s.phase -= 16
	}
	return out
}
