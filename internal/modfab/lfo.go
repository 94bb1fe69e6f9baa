// Package modfab implements the modulation fabric of spec.md §4.8: three
// LFOs (each with an optional phase-modulation source and two destination
// slots) plus a 16-step tempo-synced modulation sequencer, composed
// additively onto the parameter store.
//
// Grounded on justyntemme-vst3go's modulation.LFO (waveform/depth/offset
// shape), generalized to add tempo sync (division-based rate) and
// cross-LFO phase modulation, neither of which the pack example has.
package modfab

import (
	"math"
	"math/rand"

	"plldrift/internal/dsp"
	"plldrift/internal/param"
)

type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
	WaveSampleHold
)

// LFO is one modulation source.
type LFO struct {
	phase float64

	shRNG     *rand.Rand
	shValue   float64
	shCounter int
	shPeriod  int
}

func NewLFO(seed int64) *LFO {
	return &LFO{shRNG: rand.New(rand.NewSource(seed))}
}

func (l *LFO) Reset() { l.phase = 0 }

// RateHz resolves a division-synced rate to Hz given the current tempo;
// free-running rates pass through unchanged.
func RateHz(tempoSynced bool, freeHz float64, division param.Division, tempoBPM float64) float64 {
	if !tempoSynced || tempoBPM <= 0 {
		return freeHz
	}
	n := float64(param.DivisionLen(division))
	quarterHz := tempoBPM / 60
	return quarterHz * n / 4
}

// Advance steps the LFO's phase and returns its raw waveform value in
// [-1,1], before depth/offset. phaseModInput, when non-zero, is another
// LFO's current output used as a phase-modulation source (spec.md §4.8:
// "one LFO can phase-modulate another").
func (l *LFO) Advance(waveform Waveform, rateHz, sampleRate, phaseModInput, phaseModAmount float64) float64 {
	if waveform == WaveSampleHold && rateHz > 0 && sampleRate > 0 {
		l.shPeriod = int(sampleRate/rateHz + 0.5)
	}
	effectivePhase := dsp.Wrap01(l.phase + phaseModInput*phaseModAmount)
	out := generate(waveform, effectivePhase, l)
	l.phase = dsp.Wrap01(l.phase + rateHz/sampleRate)
	return out
}

func generate(w Waveform, phase float64, l *LFO) float64 {
	switch w {
	case WaveTriangle:
		return dsp.FastTri(phase)
	case WaveSaw:
		return 2*phase - 1
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSampleHold:
		if l.shPeriod <= 0 {
			l.shPeriod = 1
		}
		if l.shCounter <= 0 {
			l.shValue = l.shRNG.Float64()*2 - 1
			l.shCounter = l.shPeriod
		}
		l.shCounter--
		return l.shValue
	default:
		return dsp.ParabolicSin(2 * math.Pi * phase)
	}
}
