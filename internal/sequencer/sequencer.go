package sequencer

import (
	"sort"

	"plldrift/internal/param"
	"plldrift/internal/transport"
)

// Pattern is the result of preparing one bar: a time-sorted, non-overlapping
// list of scheduled events covering [0, samples_per_bar) (spec.md §4.1
// "prepare_bar"), plus the bar index it was computed for (useful for
// diagnostics and tests).
type Pattern struct {
	BarIndex      int64
	SamplesPerBar int64
	Events        []Event
}

// PrepareBar is the pure, deterministic core of spec.md §4.1's prepare_bar
// operation. Same snapshot + same barIndex -> bit-identical Pattern (P3).
func PrepareBar(snap param.Snapshot, tr transport.State, barIndex int64) Pattern {
	samplesPerBar := tr.SamplesPerBar()
	if samplesPerBar <= 0 {
		return Pattern{BarIndex: barIndex, SamplesPerBar: 0}
	}

	seed := deriveSeed(barIndex, snap)
	rng := newRNG(seed)

	beats := enumerateBeats(snap)
	resolved := resolveBeats(beats, rng)

	swing := snap.Get(param.Swing)
	for i := range resolved {
		resolved[i].start = applySwing(resolved[i].start, swing)
	}
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].start < resolved[j].start })

	minDur, maxDur := enabledDivisionDurationRange(snap)

	events := make([]Event, 0, len(resolved))
	for _, rb := range resolved {
		startSample := int64(rb.start*float64(samplesPerBar) + 0.5)
		durationSamplesNominal := int64(rb.duration*float64(samplesPerBar) + 0.5)
		if durationSamplesNominal < 1 {
			durationSamplesNominal = 1
		}

		strengthIdx := int(rb.start * float64(param.NumStrengthSlots))
		if strengthIdx >= param.NumStrengthSlots {
			strengthIdx = param.NumStrengthSlots - 1
		}
		if strengthIdx < 0 {
			strengthIdx = 0
		}
		strength := snap.Strength(strengthIdx)

		note := pickNote(snap, rng, strength, rb.duration, minDur, maxDur)
		duration := applyLengthModifiers(snap, rng, strength, durationSamplesNominal)
		velocity := applyVelocityModifiers(snap, rng, strength)
		shift := applyPositionModifiers(snap, rng, strength, durationSamplesNominal)

		shiftedStart := startSample + shift
		if shiftedStart < 0 {
			shiftedStart = 0
		}
		if shiftedStart >= samplesPerBar {
			shiftedStart = samplesPerBar - 1
		}

		events = append(events, Event{
			StartSample:     shiftedStart,
			DurationSamples: duration,
			Note:            note,
			Velocity:        velocity,
			ShiftSamples:    shift,
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].StartSample < events[j].StartSample })

	// Swing and the length/position humanisers can stretch an event past the
	// next one's start or past the bar end; trim it so events never overlap.
	for i := range events {
		end := samplesPerBar
		if i+1 < len(events) {
			end = events[i+1].StartSample
		}
		if events[i].StartSample+events[i].DurationSamples > end {
			events[i].DurationSamples = end - events[i].StartSample
		}
	}

	return Pattern{BarIndex: barIndex, SamplesPerBar: samplesPerBar, Events: events}
}

// EventsForBlock implements spec.md §4.1's events_for_block: returns events
// whose start falls within [blockStartInBar, blockStartInBar+blockLen),
// with sample offsets made relative to the block (spec.md §8 P8).
func (p Pattern) EventsForBlock(blockStartInBar, blockLen int64) []Event {
	var out []Event
	blockEnd := blockStartInBar + blockLen
	for _, e := range p.Events {
		if e.StartSample >= blockStartInBar && e.StartSample < blockEnd {
			rel := e
			rel.StartSample = e.StartSample - blockStartInBar
			out = append(out, rel)
		}
	}
	return out
}
