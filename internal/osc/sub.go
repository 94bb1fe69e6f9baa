package osc

import (
	"math"

	"plldrift/internal/dsp"
)

// SubWaveform selects the sub oscillator's shape.
type SubWaveform int

const (
	SubSine SubWaveform = iota
	SubSquare
)

// Sub is a simple sub-oscillator, tracking the voice's base frequency at a
// fractional ratio (spec.md §6 "Sub": ratio, volume, waveform).
type Sub struct {
	phase float64
}

func (s *Sub) Reset() { s.phase = 0 }

// Advance steps the phase by freq*ratio/sampleRate and returns the mono
// sample (duplicated to both channels by the caller).
func (s *Sub) Advance(freq, ratio, sampleRate float64, waveform SubWaveform) float64 {
	var out float64
	switch waveform {
	case SubSquare:
		if s.phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
	default:
		out = dsp.ParabolicSin(2 * math.Pi * s.phase)
	}
	s.phase = dsp.Wrap01(s.phase + freq*ratio/sampleRate)
	return out
}
