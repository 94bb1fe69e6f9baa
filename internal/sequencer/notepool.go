package sequencer

import (
	"math/rand"

	"plldrift/internal/dsp"
	"plldrift/internal/param"
)

// strengthMatch implements spec.md §4.1.1's strength_match formula.
func strengthMatch(s, pref float64) float64 {
	v := 1 + ((pref-64)/63)*(s-0.5)*2
	return dsp.Clamp(v, 0.1, 2.0)
}

// lengthMatch normalises duration d against [minDur,maxDur] before applying
// the same match formula (spec.md §4.1.1: "length_match normalises d
// against the current bar's min/max enabled-division durations").
func lengthMatch(d, minDur, maxDur, pref float64) float64 {
	norm := 0.5
	if maxDur > minDur {
		norm = (d - minDur) / (maxDur - minDur)
	}
	return strengthMatch(norm, pref)
}

// enabledDivisionDurationRange returns the min/max nominal beat duration
// (bar-fractions) across every division with at least one beat probability
// > 0, used to normalise lengthMatch.
func enabledDivisionDurationRange(snap param.Snapshot) (min, max float64) {
	min, max = 1, 0
	any := false
	for _, d := range param.AllDivisions {
		n := param.DivisionLen(d)
		dur := 1 / float64(n)
		for i := 0; i < n; i++ {
			if snap.BeatProbability(d, i) <= 0 {
				continue
			}
			any = true
			if dur < min {
				min = dur
			}
			if dur > max {
				max = dur
			}
		}
	}
	if !any {
		return 0, 1
	}
	return min, max
}

// pickNote implements spec.md §4.1.2 note selection for one resolved beat.
// strength is the strength-grid value at the beat's bar position; duration
// is the beat's nominal bar-fraction duration.
func pickNote(snap param.Snapshot, rng *rand.Rand, strength, duration, minDur, maxDur float64) int {
	type cand struct {
		note   int
		weight float64
	}
	var cands []cand
	total := 0.0
	for n := 0; n < param.NumNotePoolEntries; n++ {
		if snap.NoteField(n, param.NoteFieldEnabled) == 0 {
			continue
		}
		chance := snap.NoteField(n, param.NoteFieldChance)
		sPref := snap.NoteField(n, param.NoteFieldStrengthPref)
		lPref := snap.NoteField(n, param.NoteFieldLengthPref)
		w := chance * strengthMatch(strength, sPref) * lengthMatch(duration, minDur, maxDur, lPref)
		if w < 0 {
			w = 0
		}
		cands = append(cands, cand{note: n, weight: w})
		total += w
	}

	var chosen int
	if total <= 0 {
		chosen = param.RootNote
	} else {
		r := uniform(rng, total)
		cum := 0.0
		chosen = param.RootNote
		for _, c := range cands {
			cum += c.weight
			if r < cum {
				chosen = c.note
				break
			}
		}
	}

	chosen = applyOctaveRandomiser(snap, rng, chosen, strength, duration, minDur, maxDur)
	return chosen
}

// applyOctaveRandomiser implements spec.md §4.1.3's global octave-randomiser.
func applyOctaveRandomiser(snap param.Snapshot, rng *rand.Rand, note int, strength, duration, minDur, maxDur float64) int {
	chance := snap.Get(param.OctaveRandChance)
	if chance <= 0 {
		return note
	}
	if rng.Float64() >= chance/127 {
		return note
	}
	sPref := snap.Get(param.OctaveRandStrengthPref)
	lPref := snap.Get(param.OctaveRandLengthPref)
	if strengthMatch(strength, sPref) <= 1.0 || lengthMatch(duration, minDur, maxDur, lPref) <= 1.0 {
		return note
	}
	dir := snap.GetInt(param.OctaveRandDirection)
	shift := 12
	switch dir {
	case 1: // up
		shift = 12
	case 2: // down
		shift = -12
	default: // 0: uniform choice of +-12 (decided Open Question, see SPEC_FULL.md)
		if rng.Intn(2) == 0 {
			shift = 12
		} else {
			shift = -12
		}
	}
	out := note + shift
	if out < 0 {
		out = 0
	}
	if out > 127 {
		out = 127
	}
	return out
}
